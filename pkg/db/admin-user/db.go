package adminuser

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
	COLLECTION_NAME_ADMIN_USERS = "admin_users"
)

const (
	CONNECT_RETRY_ATTEMPTS = 5
	CONNECT_RETRY_DELAY    = 3 * time.Second
)

type AdminUserDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
}

func NewAdminUserDBService(configs db.DBConfig) (*AdminUserDBService, error) {
	var dbClient *mongo.Client
	var err error
	for attempt := 1; attempt <= CONNECT_RETRY_ATTEMPTS; attempt++ {
		dbClient, err = connectAndPing(configs)
		if err == nil {
			break
		}
		slog.Error("failed to connect to admin user DB", slog.Int("attempt", attempt), slog.String("error", err.Error()))
		if attempt < CONNECT_RETRY_ATTEMPTS {
			time.Sleep(CONNECT_RETRY_DELAY)
		}
	}
	if err != nil {
		return nil, err
	}

	auDBSc := &AdminUserDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		if err := auDBSc.ensureIndexes(); err != nil {
			slog.Error("Error ensuring indexes for admin user DB", slog.String("error", err.Error()))
		}
	}

	return auDBSc, nil
}

func connectAndPing(configs db.DBConfig) (*mongo.Client, error) {
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
	return dbClient, nil
}

func (dbService *AdminUserDBService) getDBName() string {
	return dbService.DBNamePrefix + "storefront"
}

func (dbService *AdminUserDBService) collectionAdminUsers() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_ADMIN_USERS)
}

func (dbService *AdminUserDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *AdminUserDBService) ensureIndexes() error {
	slog.Debug("Ensuring indexes for admin user DB")
	ctx, cancel := dbService.getContext()
	defer cancel()

	// unique index for email
	_, err := dbService.collectionAdminUsers().Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	)
	if err != nil {
		slog.Error("Error creating unique index for email in admin_users", slog.String("error", err.Error()))
	}

	return nil
}
