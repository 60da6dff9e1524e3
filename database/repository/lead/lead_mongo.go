package leadRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fundilink/database"
	"fundilink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLeadRepo implements LeadRepository using MongoDB.
type MongoLeadRepo struct {
	coll *mongo.Collection
}

// NewMongoLeadRepo creates a new instance of LeadRepository using MongoDB.
func NewMongoLeadRepo() LeadRepository {
	coll := database.Collection("leads")
	return &MongoLeadRepo{coll: coll}
}

func (r *MongoLeadRepo) Create(lead *models.Lead) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := r.coll.InsertOne(ctx, lead)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

func (r *MongoLeadRepo) FindRecent(fundiID, clientPhone, serviceCategory string, since time.Time) (*models.Lead, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"fundiId":         fundiID,
		"clientPhone":     clientPhone,
		"serviceCategory": serviceCategory,
		"createdAt":       bson.M{"$gte": since},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var lead models.Lead
	err := r.coll.FindOne(ctx, filter, opts).Decode(&lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up recent lead: %w", err)
	}
	return &lead, nil
}

func (r *MongoLeadRepo) MarkConverted(fundiID, clientPhone, serviceCategory, bookingID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"fundiId":         fundiID,
		"clientPhone":     clientPhone,
		"serviceCategory": serviceCategory,
		"status":          models.LeadStatusNew,
	}
	update := bson.M{"$set": bson.M{
		"status":    models.LeadStatusConverted,
		"bookingId": bookingID,
	}}
	opts := options.FindOneAndUpdate().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		// No live lead to convert; not an error for the booking path.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to mark lead converted: %w", err)
	}
	return nil
}

func (r *MongoLeadRepo) ListByFundi(fundiID string, limit int64) ([]models.Lead, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"fundiId": fundiID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads for fundi %s: %w", fundiID, err)
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	for cursor.Next(ctx) {
		var l models.Lead
		if err := cursor.Decode(&l); err != nil {
			return nil, fmt.Errorf("failed to decode lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, cursor.Err()
}

func (r *MongoLeadRepo) CountChargedSince(fundiID string, since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"fundiId":   fundiID,
		"charged":   true,
		"createdAt": bson.M{"$gte": since},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count charged leads: %w", err)
	}
	return count, nil
}
