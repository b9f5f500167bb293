package cache

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/profiles"
	"github.com/hlra-health/profilesync/store"
)

const CollectionName = "profileSets"

// MongoCache stores one document per account, replaced on every save
type MongoCache struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

var _ profiles.Cache = &MongoCache{}

func NewMongoCache(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (*MongoCache, error) {
	cache := &MongoCache{
		collection: db.Collection(CollectionName),
		logger:     logger,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return cache.Initialize(ctx)
		},
	})

	return cache, nil
}

func (m *MongoCache) Initialize(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "accountId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("UniqueAccountId"),
		},
	})
	return err
}

func (m *MongoCache) Load(ctx context.Context, accountId string) (*profiles.ProfileSet, error) {
	set := &profiles.ProfileSet{}
	err := m.collection.FindOne(ctx, bson.M{"accountId": accountId}).Decode(set)
	if store.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to load cached profiles of account %s: %w", accountId, err)
	}
	return set, nil
}

func (m *MongoCache) Save(ctx context.Context, set profiles.ProfileSet) error {
	if err := validateAccountId(set.AccountId); err != nil {
		return err
	}

	selector := bson.M{"accountId": set.AccountId}
	opts := options.Replace().SetUpsert(true)
	_, err := m.collection.ReplaceOne(ctx, selector, set, opts)
	if store.IsDuplicateKeyError(err) {
		// Two concurrent upserts raced to insert the document, the second one replaces it
		_, err = m.collection.ReplaceOne(ctx, selector, set)
	}
	if err != nil {
		return fmt.Errorf("unable to cache profiles of account %s: %w", set.AccountId, err)
	}
	return nil
}

func (m *MongoCache) Delete(ctx context.Context, accountId string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"accountId": accountId}); err != nil {
		return fmt.Errorf("unable to delete cached profiles of account %s: %w", accountId, err)
	}
	return nil
}
