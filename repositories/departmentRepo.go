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

// DepartmentRepo is the persistence surface for Department records.
type DepartmentRepo interface {
	Insert(ctx context.Context, dept *models.Department) error
	FindAll(ctx context.Context) ([]models.Department, error)
	NameExists(ctx context.Context, name string) (bool, error)
}

type mongoDepartmentRepo struct {
	col *mongo.Collection
}

// NewDepartmentRepo returns a DepartmentRepo backed by the
// "departments" collection.
func NewDepartmentRepo(db *mongo.Database) DepartmentRepo {
	return &mongoDepartmentRepo{col: db.Collection("departments")}
}

func (r *mongoDepartmentRepo) Insert(ctx context.Context, dept *models.Department) error {
	now := time.Now()
	if dept.ID.IsZero() {
		dept.ID = primitive.NewObjectID()
	}
	dept.CreatedAt = now
	dept.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, dept)
	return err
}

func (r *mongoDepartmentRepo) FindAll(ctx context.Context) ([]models.Department, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.col.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var depts []models.Department
	if err := cursor.All(ctx, &depts); err != nil {
		return nil, err
	}
	return depts, nil
}

func (r *mongoDepartmentRepo) NameExists(ctx context.Context, name string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
