package catalog

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func buildProductQuery(filter ProductFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Featured != nil {
		query["featured"] = *filter.Featured
	}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}
	return query
}

func sortForKey(sortKey string) bson.D {
	switch sortKey {
	case SORT_OLDEST:
		return bson.D{{Key: "createdAt", Value: 1}}
	case SORT_POPULAR:
		return bson.D{{Key: "viewCount", Value: -1}}
	case SORT_PRICE_ASC:
		return bson.D{{Key: "price", Value: 1}}
	case SORT_PRICE_DESC:
		return bson.D{{Key: "price", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func (dbService *CatalogDBService) GetProducts(filter ProductFilter, sortKey string, page int64, limit int64) (products []Product, total int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	query := buildProductQuery(filter)

	total, err = dbService.collectionProducts().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(sortForKey(sortKey)).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := dbService.collectionProducts().Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products = []Product{}
	if err = cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetProductBySlug returns the active product and increments its view counter
// in the same operation.
func (dbService *CatalogDBService) GetProductBySlug(slug string) (*Product, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product Product
	if err := dbService.collectionProducts().FindOneAndUpdate(ctx,
		bson.M{"slug": slug, "isActive": true},
		bson.M{"$inc": bson.M{"viewCount": 1}},
		opts,
	).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (dbService *CatalogDBService) GetProductByID(productID string) (*Product, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := dbService.collectionProducts().FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (dbService *CatalogDBService) CreateProduct(product Product) (*Product, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	res, err := dbService.collectionProducts().InsertOne(ctx, product)
	if err != nil {
		return nil, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, errors.New("could not parse inserted id")
	}
	product.ID = id
	return &product, nil
}

func (dbService *CatalogDBService) UpdateProduct(productID string, update bson.M) (*Product, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, err
	}
	update["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product Product
	if err := dbService.collectionProducts().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		opts,
	).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (dbService *CatalogDBService) DeleteProduct(productID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionProducts().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount < 1 {
		return errors.New("product not found")
	}
	return nil
}

func (dbService *CatalogDBService) SetProductFeatured(productID string, featured bool) (*Product, error) {
	return dbService.UpdateProduct(productID, bson.M{"featured": featured})
}

func (dbService *CatalogDBService) CountProductsInCategory(categorySlug string) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionProducts().CountDocuments(ctx, bson.M{"category": categorySlug})
}

// GetTopViewedProduct is used by the dashboard.
func (dbService *CatalogDBService) GetTopViewedProduct() (*Product, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "viewCount", Value: -1}})
	var product Product
	if err := dbService.collectionProducts().FindOne(ctx, bson.M{"isActive": true}, opts).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (dbService *CatalogDBService) CountProducts(filter bson.M) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionProducts().CountDocuments(ctx, filter)
}
