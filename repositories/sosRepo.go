package repositories

import (
	"context"
	"time"

	"civicpulse-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SOSRepo is the persistence surface for SOSAlert records. Alerts are
// never deleted, so there is no delete operation.
type SOSRepo interface {
	Insert(ctx context.Context, alert *models.SOSAlert) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SOSAlert, error)
	FindActive(ctx context.Context) ([]models.SOSAlert, error)
	Update(ctx context.Context, alert *models.SOSAlert) error
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type mongoSOSRepo struct {
	col *mongo.Collection
}

// NewSOSRepo returns an SOSRepo backed by the "sosalerts" collection.
func NewSOSRepo(db *mongo.Database) SOSRepo {
	return &mongoSOSRepo{col: db.Collection("sosalerts")}
}

func (r *mongoSOSRepo) Insert(ctx context.Context, alert *models.SOSAlert) error {
	now := time.Now()
	if alert.ID.IsZero() {
		alert.ID = primitive.NewObjectID()
	}
	alert.CreatedAt = now
	alert.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, alert)
	return err
}

func (r *mongoSOSRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SOSAlert, error) {
	var alert models.SOSAlert
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *mongoSOSRepo) FindActive(ctx context.Context) ([]models.SOSAlert, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.M{"status": models.SOSActive}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var alerts []models.SOSAlert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *mongoSOSRepo) Update(ctx context.Context, alert *models.SOSAlert) error {
	alert.UpdatedAt = time.Now()

	update := bson.M{
		"status":    alert.Status,
		"updatedAt": alert.UpdatedAt,
	}
	if alert.AssignedTo != nil {
		update["assignedTo"] = *alert.AssignedTo
	}
	if alert.AssignedAt != nil {
		update["assignedAt"] = *alert.AssignedAt
	}
	if alert.ResolvedAt != nil {
		update["resolvedAt"] = *alert.ResolvedAt
	}

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": alert.ID}, bson.M{"$set": update})
	return err
}

func (r *mongoSOSRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *mongoSOSRepo) CountActive(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"status": models.SOSActive})
}
