package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/babulal-jewellers/storefront-backend/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	COLLECTION_NAME_PRODUCTS   = "products"
	COLLECTION_NAME_CATEGORIES = "categories"
)

type CatalogDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
}

func NewCatalogDBService(configs db.DBConfig) (*CatalogDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)
	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer conCancel()
	if err := dbClient.Ping(ctx, nil); err != nil {
		return nil, err
	}

	cDBSc := &CatalogDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		if err := cDBSc.ensureIndexes(); err != nil {
			slog.Error("Error ensuring indexes for catalog DB", slog.String("error", err.Error()))
		}
	}

	return cDBSc, nil
}

func (dbService *CatalogDBService) getDBName() string {
	return dbService.DBNamePrefix + "storefront"
}

func (dbService *CatalogDBService) collectionProducts() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_PRODUCTS)
}

func (dbService *CatalogDBService) collectionCategories() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_CATEGORIES)
}

func (dbService *CatalogDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *CatalogDBService) ensureIndexes() error {
	slog.Debug("Ensuring indexes for catalog DB")
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionProducts().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "tags", Value: "text"},
			},
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}, {Key: "isActive", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "featured", Value: 1}, {Key: "isActive", Value: 1}},
		},
	})
	if err != nil {
		slog.Error("Error creating indexes for products", slog.String("error", err.Error()))
	}

	_, err = dbService.collectionCategories().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		slog.Error("Error creating indexes for categories", slog.String("error", err.Error()))
	}

	return nil
}
