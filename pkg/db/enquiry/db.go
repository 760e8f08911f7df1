package enquiry

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
	COLLECTION_NAME_ENQUIRIES = "enquiries"
)

type EnquiryDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
}

func NewEnquiryDBService(configs db.DBConfig) (*EnquiryDBService, error) {
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

	eDBSc := &EnquiryDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		if err := eDBSc.ensureIndexes(); err != nil {
			slog.Error("Error ensuring indexes for enquiry DB", slog.String("error", err.Error()))
		}
	}

	return eDBSc, nil
}

func (dbService *EnquiryDBService) getDBName() string {
	return dbService.DBNamePrefix + "storefront"
}

func (dbService *EnquiryDBService) collectionEnquiries() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_ENQUIRIES)
}

func (dbService *EnquiryDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *EnquiryDBService) ensureIndexes() error {
	slog.Debug("Ensuring indexes for enquiry DB")
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionEnquiries().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "product", Value: 1}}},
	})
	if err != nil {
		slog.Error("Error creating indexes for enquiries", slog.String("error", err.Error()))
	}
	return nil
}
