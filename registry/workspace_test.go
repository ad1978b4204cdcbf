package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariebrainware/patient-registry/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) (*Workspace, *fakeCreds, *fakeRecords) {
	t.Helper()
	creds := newFakeCreds()
	records := newFakeRecords()
	w := NewWorkspace(creds, records, Options{
		Collection: "scans",
		SessionTTL: time.Hour,
		MessageTTL: time.Minute,
		Now:        func() time.Time { return today },
	})
	t.Cleanup(w.Close)
	return w, creds, records
}

func TestHandleSessionChange(t *testing.T) {
	records := newFakeRecords()
	records.seed("John Doe", "uid-a")
	sc := &SessionController{List: &ListController{Store: records}}
	st := NewState(nil)
	st.AuthStatus = "Login failed: nope"

	in := auth.SessionChange{Token: "t", Session: &auth.Session{UserID: "uid-a", Email: "a@clinic.test"}}
	require.NoError(t, sc.HandleSessionChange(context.Background(), st, in))
	assert.Equal(t, &Identity{UserID: "uid-a", Email: "a@clinic.test"}, st.User)
	assert.True(t, st.FormEnabled)
	assert.Empty(t, st.AuthStatus)
	assert.Len(t, st.Visible, 1)

	require.NoError(t, sc.HandleSessionChange(context.Background(), st, auth.SessionChange{Token: "t"}))
	assert.Nil(t, st.User)
	assert.False(t, st.FormEnabled)
	assert.Empty(t, st.Records)
	assert.Empty(t, st.Visible)

	v := Render(st, nil)
	assert.Equal(t, PlaceholderSignedOut, v.List.Placeholder)
	assert.Equal(t, LabelLogin, v.Form.SubmitLabel)
}

func TestWorkspaceOpenUnknownTokenIsSignedOut(t *testing.T) {
	w, _, records := newTestWorkspace(t)

	v := w.Open(context.Background(), "bogus").View()
	assert.False(t, v.SignedIn)
	assert.Equal(t, PlaceholderSignedOut, v.List.Placeholder)
	assert.Zero(t, records.queries)
}

func TestWorkspaceSignInLoadsRecords(t *testing.T) {
	w, _, records := newTestWorkspace(t)
	records.seed("John Doe", "uid-doc@clinic.test")
	ctx := context.Background()

	c, v, err := w.SignIn(ctx, "", "doc@clinic.test", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Token())
	assert.True(t, v.SignedIn)
	assert.Equal(t, LabelSave, v.Form.SubmitLabel)
	require.Len(t, v.List.Cards, 1)
	assert.Equal(t, "John Doe", v.List.Cards[0].Name)

	// The same token resolves to the same client.
	assert.Same(t, c, w.Open(ctx, c.Token()))
}

func TestWorkspaceAuthStatusMessages(t *testing.T) {
	w, _, _ := newTestWorkspace(t)
	ctx := context.Background()

	_, v, err := w.SignIn(ctx, "", "", "")
	assert.ErrorIs(t, err, auth.ErrMissingCredentials)
	assert.Equal(t, "Please enter email and password", v.AuthStatus)

	_, v, err = w.SignUp(ctx, "", "new@clinic.test", "12345")
	assert.ErrorIs(t, err, auth.ErrWeakPassword)
	assert.Equal(t, "Password must be at least 6 characters", v.AuthStatus)

	_, v, err = w.SignIn(ctx, "", "doc@clinic.test", "wrong")
	var ae *auth.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "Login failed: invalid email or password", v.AuthStatus)

	_, v, err = w.SignUp(ctx, "", "taken@clinic.test", "secret1")
	assert.ErrorIs(t, err, auth.ErrEmailInUse)
	assert.Equal(t, "Signup failed: email already registered", v.AuthStatus)
}

func TestWorkspaceSubmitSearchDeleteFlow(t *testing.T) {
	w, _, records := newTestWorkspace(t)
	ctx := context.Background()

	c, _, err := w.SignUp(ctx, "", "doc@clinic.test", "secret1")
	require.NoError(t, err)
	token := c.Token()

	john := validFields()
	v, err := w.Submit(ctx, token, john)
	require.NoError(t, err)
	assert.Equal(t, EmptyForm(), v.Form.Fields)

	jane := validFields()
	jane.Name = "Jane Roe"
	jane.IDCardNumber = "3171-0002"
	jane.ContactNumber = "0813-0000"
	_, err = w.Submit(ctx, token, jane)
	require.NoError(t, err)

	v, err = w.Search(ctx, token, "doe")
	require.NoError(t, err)
	require.Len(t, v.List.Cards, 1)
	assert.Equal(t, "doe", v.List.SearchTerm)
	johnID := v.List.Cards[0].ID

	v, err = w.Delete(ctx, token, johnID, func(string) bool { return false })
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Len(t, v.List.Cards, 1, "declined delete keeps the filtered list")

	v, err = w.Delete(ctx, token, johnID, func(string) bool { return true })
	require.NoError(t, err)
	require.Len(t, v.List.Cards, 1)
	assert.Equal(t, "Jane Roe", v.List.Cards[0].Name)
	assert.Empty(t, v.List.SearchTerm, "reload clears the search")
	assert.Len(t, records.records, 1)
}

func TestWorkspaceSignOutClearsClient(t *testing.T) {
	w, _, records := newTestWorkspace(t)
	ctx := context.Background()
	records.seed("John Doe", "uid-doc@clinic.test")

	c, _, err := w.SignIn(ctx, "", "doc@clinic.test", "secret1")
	require.NoError(t, err)
	token := c.Token()

	v := w.SignOut(ctx, token)
	assert.False(t, v.SignedIn)
	assert.Equal(t, PlaceholderSignedOut, v.List.Placeholder)

	// The client that held the session is signed out too.
	assert.Nil(t, c.state.User)
	assert.Empty(t, c.state.Records)

	_, err = w.Load(ctx, token)
	assert.ErrorIs(t, err, auth.ErrNotSignedIn)

	// A second sign-out fails in the store, is logged and ignored.
	v = w.SignOut(ctx, token)
	assert.False(t, v.SignedIn)
}

func TestWorkspaceSubmitSignedOut(t *testing.T) {
	w, _, records := newTestWorkspace(t)

	v, err := w.Submit(context.Background(), "", validFields())
	assert.ErrorIs(t, err, auth.ErrNotSignedIn)
	assert.Zero(t, records.inserts)
	require.Len(t, v.Messages, 1)
	assert.Equal(t, NoticeError, v.Messages[0].Kind)
	assert.Equal(t, "Please login to save patient records.", v.Messages[0].Text)
}

func TestWorkspaceClearFormSignedOut(t *testing.T) {
	w, _, _ := newTestWorkspace(t)
	v, err := w.ClearForm(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, EmptyForm(), v.Form.Fields)
	assert.False(t, v.Form.Enabled)
}

func TestWorkspaceSubmitShowsSavingAndRejectsDuplicates(t *testing.T) {
	w, creds, records := newTestWorkspace(t)
	ctx := context.Background()
	token := creds.open(ctx, "doc@clinic.test").Token

	started, release := records.holdInserts()
	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(ctx, token, validFields())
		done <- err
	}()
	<-started

	v := w.Open(ctx, token).View()
	assert.Equal(t, LabelSaving, v.Form.SubmitLabel)

	_, err := w.Submit(ctx, token, validFields())
	assert.ErrorIs(t, err, ErrBusy)

	release()
	require.NoError(t, <-done)
	assert.Equal(t, 1, records.inserts)

	v = w.Open(ctx, token).View()
	assert.Equal(t, LabelSave, v.Form.SubmitLabel)
	assert.Len(t, v.List.Cards, 1)
}

func TestWorkspaceSessionExpirySignsClientOut(t *testing.T) {
	w, creds, records := newTestWorkspace(t)
	ctx := context.Background()
	start := time.Now()
	clock := start
	now := func() time.Time { return clock }
	creds.now, w.now = now, now
	creds.ttl = 2 * time.Second

	s := creds.open(ctx, "doc@clinic.test")
	v, err := w.Load(ctx, s.Token)
	require.NoError(t, err)
	assert.True(t, v.SignedIn)

	// Activity inside the session does not extend it.
	clock = start.Add(1200 * time.Millisecond)
	_, err = w.Load(ctx, s.Token)
	require.NoError(t, err)

	clock = start.Add(3 * time.Second)
	v, err = w.Load(ctx, s.Token)
	assert.ErrorIs(t, err, auth.ErrNotSignedIn)
	assert.False(t, v.SignedIn)
	assert.Equal(t, PlaceholderSignedOut, v.List.Placeholder)

	_, err = w.Submit(ctx, s.Token, validFields())
	assert.ErrorIs(t, err, auth.ErrNotSignedIn)
	assert.Zero(t, records.inserts)
}
