package meetings_test

import (
	"context"
	"sort"
	"sync"

	"github.com/dalemusser/mepad/internal/app/system/normalize"
	"github.com/dalemusser/mepad/internal/domain/apperr"
	"github.com/dalemusser/mepad/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeMeetings keeps copies of documents so that in-memory edits made by the
// service are only visible after Replace, as with a real store.
type fakeMeetings struct {
	mu     sync.Mutex
	docs   map[primitive.ObjectID]models.Meeting
	writes int

	// beforeReplace, when set, runs before the version check. Tests use it
	// to simulate a concurrent writer.
	beforeReplace func(id primitive.ObjectID)
}

func newFakeMeetings() *fakeMeetings {
	return &fakeMeetings{docs: map[primitive.ObjectID]models.Meeting{}}
}

func clone(m models.Meeting) models.Meeting {
	m.Participants = append([]primitive.ObjectID{}, m.Participants...)
	m.ActionPoints = append([]models.ActionPoint{}, m.ActionPoints...)
	m.PainPoints = append([]models.PainPoint{}, m.PainPoints...)
	return m
}

func (f *fakeMeetings) Create(_ context.Context, m models.Meeting) (models.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	m.Version = 1
	f.docs[m.ID] = clone(m)
	return clone(m), nil
}

func (f *fakeMeetings) GetByID(_ context.Context, id primitive.ObjectID) (*models.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.docs[id]
	if !ok {
		return nil, apperr.NotFound("meeting")
	}
	c := clone(m)
	return &c, nil
}

func (f *fakeMeetings) ListByCreator(_ context.Context, userID primitive.ObjectID) ([]models.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Meeting{}
	for _, m := range f.docs {
		if m.CreatedBy == userID {
			out = append(out, clone(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeMeetings) Replace(_ context.Context, m *models.Meeting) error {
	if f.beforeReplace != nil {
		f.beforeReplace(m.ID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.docs[m.ID]
	if !ok {
		return apperr.NotFound("meeting")
	}
	if cur.Version != m.Version {
		return apperr.ErrStaleWrite
	}
	m.Version++
	f.docs[m.ID] = clone(*m)
	f.writes++
	return nil
}

func (f *fakeMeetings) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return apperr.NotFound("meeting")
	}
	delete(f.docs, id)
	return nil
}

// bump simulates another writer committing a change.
func (f *fakeMeetings) bump(id primitive.ObjectID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.docs[id]
	m.Version++
	f.docs[id] = m
}

func (f *fakeMeetings) stored(id primitive.ObjectID) (models.Meeting, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.docs[id]
	return clone(m), ok
}

type fakeUsers struct {
	byID map[primitive.ObjectID]models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[primitive.ObjectID]models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = normalize.Email(email)
	for _, u := range f.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return &u, nil
}
