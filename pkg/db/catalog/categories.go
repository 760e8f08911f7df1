package catalog

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (dbService *CatalogDBService) GetActiveCategories() ([]Category, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := dbService.collectionCategories().Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (dbService *CatalogDBService) GetAllCategories() ([]Category, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := dbService.collectionCategories().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (dbService *CatalogDBService) GetCategoryByID(categoryID string) (*Category, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, err
	}

	var category Category
	if err := dbService.collectionCategories().FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (dbService *CatalogDBService) CreateCategory(category Category) (*Category, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	res, err := dbService.collectionCategories().InsertOne(ctx, category)
	if err != nil {
		return nil, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, errors.New("could not parse inserted id")
	}
	category.ID = id
	return &category, nil
}

func (dbService *CatalogDBService) UpdateCategory(categoryID string, update bson.M) (*Category, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, err
	}
	update["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var category Category
	if err := dbService.collectionCategories().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		opts,
	).Decode(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (dbService *CatalogDBService) DeleteCategory(categoryID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionCategories().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount < 1 {
		return errors.New("category not found")
	}
	return nil
}

func (dbService *CatalogDBService) CountCategories(filter bson.M) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionCategories().CountDocuments(ctx, filter)
}
