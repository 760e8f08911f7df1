package adminuser

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (dbService *AdminUserDBService) CreateUser(user AdminUser) (*AdminUser, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.RefreshTokens == nil {
		user.RefreshTokens = []string{}
	}

	res, err := dbService.collectionAdminUsers().InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, errors.New("could not parse inserted id")
	}
	user.ID = id
	return &user, nil
}

func (dbService *AdminUserDBService) GetUserByEmail(email string) (*AdminUser, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var user AdminUser
	if err := dbService.collectionAdminUsers().FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (dbService *AdminUserDBService) GetUserByID(userID string) (*AdminUser, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	var user AdminUser
	if err := dbService.collectionAdminUsers().FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAllUsers returns every account without the password hash and session tokens.
func (dbService *AdminUserDBService) GetAllUsers() ([]AdminUser, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"password": 0, "refreshTokens": 0}).
		SetSort(bson.M{"createdAt": -1})
	cursor, err := dbService.collectionAdminUsers().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []AdminUser{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (dbService *AdminUserDBService) UpdateLastLogin(userID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	_, err = dbService.collectionAdminUsers().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"lastLoginAt": time.Now(), "updatedAt": time.Now()}},
	)
	return err
}

// UpdateProfile only touches the profile fields, never credentials or role.
func (dbService *AdminUserDBService) UpdateProfile(userID string, name string, number string, address string, bio string, profilePic string) (*AdminUser, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	update := bson.M{"updatedAt": time.Now()}
	if name != "" {
		update["name"] = name
	}
	if number != "" {
		update["number"] = number
	}
	if address != "" {
		update["address"] = address
	}
	if bio != "" {
		update["bio"] = bio
	}
	if profilePic != "" {
		update["profilePic"] = profilePic
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user AdminUser
	if err := dbService.collectionAdminUsers().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		opts,
	).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
