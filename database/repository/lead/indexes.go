package leadRepo

import (
	"context"
	"log"
	"time"

	"fundilink/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the index backing the 24h dedup lookup.
func EnsureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := database.Collection("leads")
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "fundiId", Value: 1},
				{Key: "clientPhone", Value: 1},
				{Key: "serviceCategory", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("lead indexes: %v", err)
	}
}
