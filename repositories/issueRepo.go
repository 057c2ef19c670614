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

// CategoryCount is one bucket of the per-category analytics aggregation.
type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

// IssueRepo is the persistence surface for Issue records.
type IssueRepo interface {
	Insert(ctx context.Context, issue *models.Issue) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	FindAll(ctx context.Context) ([]models.Issue, error)
	Update(ctx context.Context, issue *models.Issue) error
	ToggleUpvote(ctx context.Context, issueID, userID primitive.ObjectID) (voted bool, votes int, err error)
	Count(ctx context.Context) (int64, error)
	CountResolved(ctx context.Context) (int64, error)
	CountsByCategory(ctx context.Context) ([]CategoryCount, error)
	AvgResolutionHours(ctx context.Context) (float64, error)
}

type mongoIssueRepo struct {
	col *mongo.Collection
}

// NewIssueRepo returns an IssueRepo backed by the "issues" collection.
func NewIssueRepo(db *mongo.Database) IssueRepo {
	return &mongoIssueRepo{col: db.Collection("issues")}
}

func (r *mongoIssueRepo) Insert(ctx context.Context, issue *models.Issue) error {
	now := time.Now()
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	issue.CreatedAt = now
	issue.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, issue)
	return err
}

func (r *mongoIssueRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *mongoIssueRepo) FindAll(ctx context.Context) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// Update writes back the mutable fields of an already-loaded issue.
// Last write wins; there is no optimistic concurrency token.
func (r *mongoIssueRepo) Update(ctx context.Context, issue *models.Issue) error {
	issue.UpdatedAt = time.Now()

	update := bson.M{
		"status":    issue.Status,
		"priority":  issue.Priority,
		"updatedAt": issue.UpdatedAt,
	}
	if issue.AssignedTo != nil {
		update["assignedTo"] = *issue.AssignedTo
	}
	if issue.AssignedAt != nil {
		update["assignedAt"] = *issue.AssignedAt
	}
	if issue.ResolvedAt != nil {
		update["resolvedAt"] = *issue.ResolvedAt
	}

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": issue.ID}, bson.M{"$set": update})
	return err
}

// ToggleUpvote adds the user to the issue's upvote set, or removes them
// when already present. Membership is unique by construction ($addToSet).
func (r *mongoIssueRepo) ToggleUpvote(ctx context.Context, issueID, userID primitive.ObjectID) (bool, int, error) {
	var issue models.Issue
	if err := r.col.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue); err != nil {
		return false, 0, err
	}

	hasVoted := false
	for _, id := range issue.Upvotes {
		if id == userID {
			hasVoted = true
			break
		}
	}

	var op bson.M
	if hasVoted {
		op = bson.M{"$pull": bson.M{"upvotes": userID}}
	} else {
		op = bson.M{"$addToSet": bson.M{"upvotes": userID}}
	}
	op["$set"] = bson.M{"updatedAt": time.Now()}

	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": issueID}, op); err != nil {
		return false, 0, err
	}

	votes := len(issue.Upvotes)
	if hasVoted {
		votes--
	} else {
		votes++
	}
	return !hasVoted, votes, nil
}

func (r *mongoIssueRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *mongoIssueRepo) CountResolved(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"status": models.StatusResolved})
}

func (r *mongoIssueRepo) CountsByCategory(ctx context.Context) ([]CategoryCount, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"category": bson.M{"$ne": nil}}},
		{"$group": bson.M{
			"_id":   "$category",
			"count": bson.M{"$sum": 1},
		}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []CategoryCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// AvgResolutionHours averages resolvedAt-createdAt over resolved issues
// that carry both timestamps. Returns 0 when nothing has been resolved.
func (r *mongoIssueRepo) AvgResolutionHours(ctx context.Context) (float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"status":     models.StatusResolved,
			"resolvedAt": bson.M{"$exists": true},
			"createdAt":  bson.M{"$exists": true},
		}},
		{"$project": bson.M{
			"duration": bson.M{"$subtract": []string{"$resolvedAt", "$createdAt"}},
		}},
		{"$group": bson.M{
			"_id":               nil,
			"avgResolutionTime": bson.M{"$avg": "$duration"},
		}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		AvgResolutionTime float64 `bson:"avgResolutionTime"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	// aggregation yields milliseconds
	return results[0].AvgResolutionTime / (1000 * 60 * 60), nil
}
