package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ariebrainware/patient-registry/auth"
	"github.com/ariebrainware/patient-registry/model"
	"github.com/ariebrainware/patient-registry/store"
)

// fakeRecords is an in-memory RecordStore that counts calls.
type fakeRecords struct {
	mu      sync.Mutex
	records []model.PatientRecord
	clock   time.Time
	nextID  int

	inserts int
	queries int
	deletes int

	insertErr error
	queryErr  error
	deleteErr error

	// When set, Insert signals started and waits for release.
	started chan struct{}
	release chan struct{}
}

// holdInserts makes every Insert block until the returned func is called.
func (f *fakeRecords) holdInserts() (started <-chan struct{}, release func()) {
	f.started = make(chan struct{}, 1)
	f.release = make(chan struct{})
	return f.started, func() { close(f.release) }
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeRecords) Insert(_ context.Context, _ string, rec model.PatientRecord) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return "", &store.Error{Op: "insert", Err: f.insertErr}
	}
	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	created := f.clock
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	rec.CreatedAt = &created
	f.records = append(f.records, rec)
	return rec.ID, nil
}

func (f *fakeRecords) Query(_ context.Context, _ string, filter store.Filter, order store.OrderBy) ([]model.PatientRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.queryErr != nil {
		return nil, &store.Error{Op: "query", Err: f.queryErr}
	}
	var out []model.PatientRecord
	for _, r := range f.records {
		if filter.Field == store.FieldCreatedBy && r.CreatedByUserID != filter.Value {
			continue
		}
		out = append(out, r)
	}
	if order.Field == store.FieldCreatedAt && order.Descending {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(*out[j].CreatedAt) })
	}
	return out, nil
}

func (f *fakeRecords) DeleteByID(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return &store.Error{Op: "delete", Err: f.deleteErr}
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeRecords) seed(name, owner string) model.PatientRecord {
	id, err := f.Insert(context.Background(), "scans", model.PatientRecord{
		Name:            name,
		IDCardNumber:    "ID-" + name,
		ContactNumber:   "0812-" + name,
		DateOfBirth:     "1990-05-20",
		Age:             35,
		Nationality:     model.NationalityIndonesian,
		CreatedByUserID: owner,
		CreatedByEmail:  owner + "@clinic.test",
	})
	if err != nil {
		panic(err)
	}
	for _, r := range f.records {
		if r.ID == id {
			return r
		}
	}
	panic("seeded record missing")
}

// fakeCreds accepts any password of "secret1" and publishes changes like
// the real store does.
type fakeCreds struct {
	auth.Notifier

	mu       sync.Mutex
	sessions map[string]*auth.Session
	next     int

	// ttl bounds new sessions when set, measured on now.
	ttl time.Duration
	now func() time.Time
}

func newFakeCreds() *fakeCreds {
	return &fakeCreds{sessions: map[string]*auth.Session{}, now: time.Now}
}

func (f *fakeCreds) open(ctx context.Context, email string) *auth.Session {
	f.mu.Lock()
	f.next++
	s := &auth.Session{
		Token:  fmt.Sprintf("tok-%d", f.next),
		UserID: "uid-" + email,
		Email:  email,
	}
	if f.ttl > 0 {
		s.ExpiresAt = f.now().Add(f.ttl)
	}
	f.sessions[s.Token] = s
	f.mu.Unlock()
	f.Publish(ctx, auth.SessionChange{Token: s.Token, Session: s})
	return s
}

func (f *fakeCreds) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	if password != "secret1" {
		return nil, &auth.Error{Op: "signin", Msg: "Login failed", Err: auth.ErrInvalidCredentials}
	}
	return f.open(ctx, email), nil
}

func (f *fakeCreds) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	if email == "taken@clinic.test" {
		return nil, &auth.Error{Op: "signup", Msg: "Signup failed", Err: auth.ErrEmailInUse}
	}
	return f.open(ctx, email), nil
}

func (f *fakeCreds) SignOut(ctx context.Context, token string) error {
	f.mu.Lock()
	_, ok := f.sessions[token]
	delete(f.sessions, token)
	f.mu.Unlock()
	if !ok {
		return errors.New("unknown session")
	}
	f.Publish(ctx, auth.SessionChange{Token: token})
	return nil
}

func (f *fakeCreds) Current(_ context.Context, token string) (*auth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.sessions[token]
	if s != nil && !s.ExpiresAt.IsZero() && !f.now().Before(s.ExpiresAt) {
		return nil, nil
	}
	return s, nil
}

func signedIn(uid string) *State {
	st := NewState(NewNotices(time.Minute))
	st.User = &Identity{UserID: uid, Email: uid + "@clinic.test"}
	st.FormEnabled = true
	return st
}

func messages(st *State) []string {
	var out []string
	for _, n := range st.Notices().Active() {
		out = append(out, n.Text)
	}
	return out
}
