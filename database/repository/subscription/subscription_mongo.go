package subscriptionRepo

import (
	"context"
	"fmt"
	"time"

	"fundilink/database"
	"fundilink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSubscriptionRepo implements SubscriptionRepository using MongoDB.
type MongoSubscriptionRepo struct {
	plans     *mongo.Collection
	checkouts *mongo.Collection
}

// NewMongoSubscriptionRepo creates a new instance of SubscriptionRepository using MongoDB.
func NewMongoSubscriptionRepo() SubscriptionRepository {
	return &MongoSubscriptionRepo{
		plans:     database.Collection("subscription_plans"),
		checkouts: database.Collection("subscription_checkouts"),
	}
}

func (r *MongoSubscriptionRepo) GetPlans() ([]models.SubscriptionPlan, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := r.plans.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve plans: %w", err)
	}
	defer cursor.Close(ctx)

	var plans []models.SubscriptionPlan
	for cursor.Next(ctx) {
		var p models.SubscriptionPlan
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, cursor.Err()
}

func (r *MongoSubscriptionRepo) GetPlan(id string) (*models.SubscriptionPlan, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var plan models.SubscriptionPlan
	if err := r.plans.FindOne(ctx, bson.M{"id": id}).Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to fetch plan %s: %w", id, err)
	}
	return &plan, nil
}

func (r *MongoSubscriptionRepo) CreateCheckout(c *models.SubscriptionCheckout) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := r.checkouts.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to create checkout: %w", err)
	}
	return nil
}

func (r *MongoSubscriptionRepo) GetCheckout(reference string) (*models.SubscriptionCheckout, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var checkout models.SubscriptionCheckout
	if err := r.checkouts.FindOne(ctx, bson.M{"reference": reference}).Decode(&checkout); err != nil {
		return nil, fmt.Errorf("failed to fetch checkout %s: %w", reference, err)
	}
	return &checkout, nil
}

func (r *MongoSubscriptionRepo) UpdateCheckoutStatus(reference, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	result, err := r.checkouts.UpdateOne(ctx, bson.M{"reference": reference}, update)
	if err != nil {
		return fmt.Errorf("failed to update checkout %s: %w", reference, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("checkout %s not found", reference)
	}
	return nil
}
