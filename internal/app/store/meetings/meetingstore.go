package meetingstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/mepad/internal/domain/apperr"
	"github.com/dalemusser/mepad/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists meeting documents. Embedded action and pain points are
// written together with their meeting; there is no per-point update path.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("meetings")}
}

var byDateDesc = bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}

// Create inserts m as a new document with version 1. A zero ID is assigned.
func (s *Store) Create(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	prepare(&m)
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	m.Version = 1

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

// GetByID loads a meeting. Returns apperr.ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Meeting, error) {
	var m models.Meeting
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("meeting")
		}
		return nil, err
	}
	return &m, nil
}

// ListByCreator returns the meetings created by userID, newest date first.
func (s *Store) ListByCreator(ctx context.Context, userID primitive.ObjectID) ([]models.Meeting, error) {
	return s.find(ctx, bson.M{"created_by": userID})
}

// ListByParticipant returns the meetings listing userID as a participant,
// newest date first.
func (s *Store) ListByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.Meeting, error) {
	return s.find(ctx, bson.M{"participants": userID})
}

// ListAll returns every meeting, newest date first.
func (s *Store) ListAll(ctx context.Context) ([]models.Meeting, error) {
	return s.find(ctx, bson.M{})
}

// Count returns the total number of meetings.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Replace writes m over the stored document provided the stored version still
// equals m.Version. On success m.Version is incremented and m.UpdatedAt set.
// A lost race returns apperr.ErrStaleWrite; a missing document returns
// apperr.ErrNotFound.
func (s *Store) Replace(ctx context.Context, m *models.Meeting) error {
	expected := m.Version
	next := *m
	prepare(&next)
	next.Version = expected + 1
	next.UpdatedAt = time.Now().UTC()

	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": m.ID, "version": expected}, next)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, cerr := s.c.CountDocuments(ctx, bson.M{"_id": m.ID}, options.Count().SetLimit(1))
		if cerr != nil {
			return cerr
		}
		if n == 0 {
			return apperr.NotFound("meeting")
		}
		return apperr.ErrStaleWrite
	}
	*m = next
	return nil
}

// Delete removes the meeting and everything embedded in it.
// Returns apperr.ErrNotFound if nothing was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("meeting")
	}
	return nil
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Meeting, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(byDateDesc))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Meeting{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// prepare fills derived fields and replaces nil slices so documents always
// carry arrays, never nulls.
func prepare(m *models.Meeting) {
	m.TitleCI = text.Fold(m.Title)
	m.Date = m.Date.UTC()
	if m.Participants == nil {
		m.Participants = []primitive.ObjectID{}
	}
	if m.ActionPoints == nil {
		m.ActionPoints = []models.ActionPoint{}
	}
	if m.PainPoints == nil {
		m.PainPoints = []models.PainPoint{}
	}
}
