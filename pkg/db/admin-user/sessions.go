package adminuser

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AddRefreshToken stores a new session token. The $slice keeps the list
// capped to MAX_SESSIONS with the oldest entry dropped first.
func (dbService *AdminUserDBService) AddRefreshToken(userID string, token string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	_, err = dbService.collectionAdminUsers().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"refreshTokens": bson.M{
				"$each":  []string{token},
				"$slice": -MAX_SESSIONS,
			}},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	return err
}

// ReplaceRefreshToken rotates oldToken to newToken in one positional update,
// so two concurrent rotations of the same token cannot both succeed.
func (dbService *AdminUserDBService) ReplaceRefreshToken(userID string, oldToken string, newToken string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionAdminUsers().UpdateOne(ctx,
		bson.M{"_id": id, "refreshTokens": oldToken},
		bson.M{
			"$set": bson.M{
				"refreshTokens.$": newToken,
				"updatedAt":       time.Now(),
			},
		},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount < 1 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (dbService *AdminUserDBService) RemoveRefreshToken(userID string, token string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	_, err = dbService.collectionAdminUsers().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$pull": bson.M{"refreshTokens": token},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	return err
}

// ClearRefreshTokens revokes every session of the account.
func (dbService *AdminUserDBService) ClearRefreshTokens(userID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	_, err = dbService.collectionAdminUsers().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"refreshTokens": []string{}, "updatedAt": time.Now()}},
	)
	return err
}
