package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lamx12/nutri-plan/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const stateCollectionName = "engine_state"

// stateDocument is one gateway entry; the gateway key is the document _id.
type stateDocument struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoStateGateway implements repository.Gateway
type mongoStateGateway struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStateGateway creates a gateway over the engine_state collection of db.
// Close disconnects client when it is non-nil.
func NewMongoStateGateway(client *mongo.Client, db *mongo.Database) repository.Gateway {
	return &mongoStateGateway{
		client:     client,
		collection: db.Collection(stateCollectionName),
	}
}

// Get retrieves the raw value stored under key.
func (r *mongoStateGateway) Get(ctx context.Context, key string) ([]byte, error) {
	var doc stateDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.Value, nil
}

// Put upserts the value for key.
func (r *mongoStateGateway) Put(ctx context.Context, key string, value []byte) error {
	update := bson.M{
		"$set": bson.M{
			"value":     value,
			"updatedAt": time.Now().UTC(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrUpdateFailed, err)
	}
	return nil
}

// Delete removes key. A missing key is not an error.
func (r *mongoStateGateway) Delete(ctx context.Context, key string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrDeleteFailed, err)
	}
	return nil
}

func (r *mongoStateGateway) Close() error {
	if r.client == nil {
		return nil
	}
	return DisconnectDB(r.client)
}

// EnsureStateIndexes creates necessary indexes. Call during startup.
func EnsureStateIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Lets operators find stale progress records by age.
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// StateCollection returns the collection the gateway writes to.
func StateCollection(db *mongo.Database) *mongo.Collection {
	return db.Collection(stateCollectionName)
}
