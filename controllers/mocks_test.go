package controllers

import (
	"context"
	"sync"
	"time"

	"civicpulse-be/models"
	"civicpulse-be/repositories"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// publishedEvent is one captured Publish call.
type publishedEvent struct {
	Event string
	Data  interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(event string, data interface{}) {
	p.mu.Lock()
	p.events = append(p.events, publishedEvent{Event: event, Data: data})
	p.mu.Unlock()
}

func (p *fakePublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// fakeIssueRepo is an in-memory IssueRepo with optional injected
// failures.
type fakeIssueRepo struct {
	mu        sync.Mutex
	order     []primitive.ObjectID
	issues    map[primitive.ObjectID]models.Issue
	insertErr error
	updateErr error
	avgHours  float64
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{issues: make(map[primitive.ObjectID]models.Issue)}
}

var _ repositories.IssueRepo = (*fakeIssueRepo)(nil)

func (r *fakeIssueRepo) Insert(_ context.Context, issue *models.Issue) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	now := time.Now()
	issue.CreatedAt = now
	issue.UpdatedAt = now
	r.order = append(r.order, issue.ID)
	r.issues[issue.ID] = *issue
	return nil
}

func (r *fakeIssueRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &issue, nil
}

func (r *fakeIssueRepo) FindAll(_ context.Context) ([]models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Issue, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.issues[r.order[i]])
	}
	return out, nil
}

func (r *fakeIssueRepo) Update(_ context.Context, issue *models.Issue) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.issues[issue.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	issue.UpdatedAt = time.Now()
	r.issues[issue.ID] = *issue
	return nil
}

func (r *fakeIssueRepo) ToggleUpvote(_ context.Context, issueID, userID primitive.ObjectID) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.issues[issueID]
	if !ok {
		return false, 0, mongo.ErrNoDocuments
	}
	for i, voter := range issue.Upvotes {
		if voter == userID {
			issue.Upvotes = append(issue.Upvotes[:i], issue.Upvotes[i+1:]...)
			r.issues[issueID] = issue
			return false, len(issue.Upvotes), nil
		}
	}
	issue.Upvotes = append(issue.Upvotes, userID)
	r.issues[issueID] = issue
	return true, len(issue.Upvotes), nil
}

func (r *fakeIssueRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.issues)), nil
}

func (r *fakeIssueRepo) CountResolved(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, issue := range r.issues {
		if issue.Status == models.StatusResolved {
			n++
		}
	}
	return n, nil
}

func (r *fakeIssueRepo) CountsByCategory(_ context.Context) ([]repositories.CategoryCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, issue := range r.issues {
		counts[issue.Category]++
	}
	out := make([]repositories.CategoryCount, 0, len(counts))
	for category, n := range counts {
		out = append(out, repositories.CategoryCount{Category: category, Count: n})
	}
	return out, nil
}

func (r *fakeIssueRepo) AvgResolutionHours(_ context.Context) (float64, error) {
	return r.avgHours, nil
}

// get returns the stored copy of an issue.
func (r *fakeIssueRepo) get(id primitive.ObjectID) models.Issue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.issues[id]
}

// seed stores an issue directly, bypassing Insert side effects.
func (r *fakeIssueRepo) seed(issue models.Issue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, issue.ID)
	r.issues[issue.ID] = issue
}

// fakeSOSRepo is an in-memory SOSRepo.
type fakeSOSRepo struct {
	mu        sync.Mutex
	order     []primitive.ObjectID
	alerts    map[primitive.ObjectID]models.SOSAlert
	insertErr error
}

func newFakeSOSRepo() *fakeSOSRepo {
	return &fakeSOSRepo{alerts: make(map[primitive.ObjectID]models.SOSAlert)}
}

var _ repositories.SOSRepo = (*fakeSOSRepo)(nil)

func (r *fakeSOSRepo) Insert(_ context.Context, alert *models.SOSAlert) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if alert.ID.IsZero() {
		alert.ID = primitive.NewObjectID()
	}
	now := time.Now()
	alert.CreatedAt = now
	alert.UpdatedAt = now
	r.order = append(r.order, alert.ID)
	r.alerts[alert.ID] = *alert
	return nil
}

func (r *fakeSOSRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.SOSAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &alert, nil
}

func (r *fakeSOSRepo) FindActive(_ context.Context) ([]models.SOSAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.SOSAlert, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if alert := r.alerts[r.order[i]]; alert.Status == models.SOSActive {
			out = append(out, alert)
		}
	}
	return out, nil
}

func (r *fakeSOSRepo) Update(_ context.Context, alert *models.SOSAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[alert.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	alert.UpdatedAt = time.Now()
	r.alerts[alert.ID] = *alert
	return nil
}

func (r *fakeSOSRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.alerts)), nil
}

func (r *fakeSOSRepo) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, alert := range r.alerts {
		if alert.Status == models.SOSActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeSOSRepo) get(id primitive.ObjectID) models.SOSAlert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.alerts[id]
}

// fakeUserRepo is an in-memory UserRepo.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

var _ repositories.UserRepo = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Insert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(context.Background(), email)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return err == nil, err
}

// asUser injects an already-authenticated user, standing in for the
// auth middleware.
func asUser(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", user.ID.Hex())
		c.Set("user", user)
		c.Next()
	}
}

func newTestUser(role models.Role) models.User {
	return models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Test " + string(role),
		Email: string(role) + "@example.com",
		Phone: "+15550001111",
		Role:  role,
	}
}
