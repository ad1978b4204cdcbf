package registry

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ariebrainware/patient-registry/auth"
	"github.com/ariebrainware/patient-registry/store"
	"github.com/patrickmn/go-cache"
)

const (
	msgMissingCredentials = "Please enter email and password"
	msgWeakPassword       = "Password must be at least 6 characters"
)

// Client is one browser's state, keyed by its session token.
type Client struct {
	mu    sync.Mutex
	token string
	state *State
	// expires is when the session behind token ends. Zero means never.
	expires time.Time
}

// Options configures a Workspace.
type Options struct {
	Collection string
	SessionTTL time.Duration
	MessageTTL time.Duration
	Now        func() time.Time
}

// Workspace keeps a client per signed-in session and routes operations to
// the controllers under that client's lock.
type Workspace struct {
	creds      auth.CredentialStore
	clients    *cache.Cache
	messageTTL time.Duration
	now        func() time.Time

	Session *SessionController
	Form    *FormController
	List    *ListController

	unsubscribe func()
}

// NewWorkspace wires the controllers to records and subscribes to creds.
func NewWorkspace(creds auth.CredentialStore, records store.RecordStore, opts Options) *Workspace {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = time.Hour
	}
	if opts.MessageTTL <= 0 {
		opts.MessageTTL = 3 * time.Second
	}

	list := &ListController{Store: records, Collection: opts.Collection}
	w := &Workspace{
		creds:      creds,
		clients:    cache.New(opts.SessionTTL, 10*time.Minute),
		messageTTL: opts.MessageTTL,
		now:        time.Now,
		Session:    &SessionController{List: list},
		Form:       &FormController{Store: records, Collection: opts.Collection, List: list, Now: opts.Now},
		List:       list,
	}
	w.unsubscribe = creds.Subscribe(w.onSessionChange)
	return w
}

// Close stops listening for session changes.
func (w *Workspace) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
}

func (w *Workspace) newClient(token string, expires time.Time) *Client {
	return &Client{token: token, state: NewState(NewNotices(w.messageTTL)), expires: expires}
}

func (w *Workspace) expired(at time.Time) bool {
	return !at.IsZero() && !w.now().Before(at)
}

// attach returns the cached client for the session, creating it when absent.
// created reports whether this call created it. The cache entry ends with the
// session and is never extended.
func (w *Workspace) attach(session *auth.Session) (c *Client, created bool) {
	if v, ok := w.clients.Get(session.Token); ok {
		return v.(*Client), false
	}
	lifetime := cache.DefaultExpiration
	if !session.ExpiresAt.IsZero() {
		// go-cache treats a non-positive duration as no expiry.
		lifetime = time.Nanosecond
		if d := session.ExpiresAt.Sub(w.now()); d > 0 {
			lifetime = d
		}
	}
	c = w.newClient(session.Token, session.ExpiresAt)
	if err := w.clients.Add(session.Token, c, lifetime); err != nil {
		// Lost the race to another request for the same token.
		if v, ok := w.clients.Get(session.Token); ok {
			return v.(*Client), false
		}
	}
	return c, true
}

// drop signs c out and forgets it.
func (w *Workspace) drop(ctx context.Context, c *Client) {
	c.mu.Lock()
	_ = w.Session.HandleSessionChange(ctx, c.state, auth.SessionChange{Token: c.token})
	c.mu.Unlock()
	w.clients.Delete(c.token)
}

func (w *Workspace) onSessionChange(ctx context.Context, change auth.SessionChange) {
	if change.Token == "" {
		return
	}
	if !change.SignedIn() {
		if v, ok := w.clients.Get(change.Token); ok {
			w.drop(ctx, v.(*Client))
		}
		return
	}
	if w.expired(change.Session.ExpiresAt) {
		return
	}

	c, _ := w.attach(change.Session)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := w.Session.HandleSessionChange(ctx, c.state, change); err != nil {
		log.Printf("Error loading patients after sign-in: %v", err)
	}
}

// Open returns the client for token. Unknown, expired or empty tokens get a
// fresh signed-out client that is not kept.
func (w *Workspace) Open(ctx context.Context, token string) *Client {
	if c := w.lookup(ctx, token); c != nil {
		return c
	}
	c := w.newClient("", time.Time{})
	_ = w.Session.HandleSessionChange(ctx, c.state, auth.SessionChange{})
	return c
}

// lookup finds the signed-in client for token, or nil. A cached client whose
// session has ended is signed out and dropped.
func (w *Workspace) lookup(ctx context.Context, token string) *Client {
	if token == "" {
		return nil
	}
	if v, ok := w.clients.Get(token); ok {
		c := v.(*Client)
		if !w.expired(c.expires) {
			return c
		}
		w.drop(ctx, c)
		return nil
	}

	session, err := w.creds.Current(ctx, token)
	if err != nil {
		log.Printf("Error resolving session: %v", err)
	}
	if session == nil || w.expired(session.ExpiresAt) {
		return nil
	}
	c, created := w.attach(session)
	if created {
		c.mu.Lock()
		if err := w.Session.HandleSessionChange(ctx, c.state, auth.SessionChange{Token: token, Session: session}); err != nil {
			log.Printf("Error loading patients: %v", err)
		}
		c.mu.Unlock()
	}
	return c
}

// Token is the session token the client is keyed by, empty when signed out.
func (c *Client) Token() string {
	return c.token
}

// View renders the client.
func (c *Client) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Render(c.state, c.state.notices.Active())
}

func (c *Client) run(op func(st *State) error) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := op(c.state)
	return Render(c.state, c.state.notices.Active()), err
}

// Do runs op on the client for token and returns the resulting view.
func (w *Workspace) Do(ctx context.Context, token string, op func(st *State) error) (*Client, View, error) {
	c := w.Open(ctx, token)
	v, err := c.run(op)
	return c, v, err
}

// Load reloads the client's records.
func (w *Workspace) Load(ctx context.Context, token string) (View, error) {
	_, v, err := w.Do(ctx, token, func(st *State) error { return w.List.Load(ctx, st) })
	return v, err
}

// Submit saves the entered patient. The client is unlocked while the insert
// runs, so its view shows the form as saving and a second submit gets ErrBusy.
func (w *Workspace) Submit(ctx context.Context, token string, fields FormFields) (View, error) {
	c := w.Open(ctx, token)
	var p *pendingRecord
	v, err := c.run(func(st *State) error {
		var err error
		p, err = w.Form.begin(st, fields)
		return err
	})
	if err != nil {
		return v, err
	}

	id, err := w.Form.Store.Insert(ctx, w.Form.Collection, p.rec)
	return c.run(func(st *State) error { return w.Form.finish(ctx, st, p, id, err) })
}

// Search filters the loaded records.
func (w *Workspace) Search(ctx context.Context, token, term string) (View, error) {
	_, v, err := w.Do(ctx, token, func(st *State) error {
		w.List.Search(st, term)
		return nil
	})
	return v, err
}

// Delete removes a record if confirm agrees.
func (w *Workspace) Delete(ctx context.Context, token, id string, confirm ConfirmFunc) (View, error) {
	_, v, err := w.Do(ctx, token, func(st *State) error { return w.List.Delete(ctx, st, id, confirm) })
	return v, err
}

// ClearForm resets the client's form.
func (w *Workspace) ClearForm(ctx context.Context, token string) (View, error) {
	_, v, err := w.Do(ctx, token, func(st *State) error {
		w.Form.Clear(st)
		return nil
	})
	return v, err
}

// SignIn authenticates and returns the new session's client. On failure the
// returned client is the caller's current one with the auth status set.
func (w *Workspace) SignIn(ctx context.Context, token, email, password string) (*Client, View, error) {
	return w.authenticate(ctx, token, email, password, false)
}

// SignUp registers an account and signs it in.
func (w *Workspace) SignUp(ctx context.Context, token, email, password string) (*Client, View, error) {
	return w.authenticate(ctx, token, email, password, true)
}

func (w *Workspace) authenticate(ctx context.Context, token, email, password string, signup bool) (*Client, View, error) {
	fail := func(status string, err error) (*Client, View, error) {
		c, v, _ := w.Do(ctx, token, func(st *State) error {
			st.AuthStatus = status
			return nil
		})
		return c, v, err
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return fail(msgMissingCredentials, &auth.Error{Op: "signin", Msg: msgMissingCredentials, Err: auth.ErrMissingCredentials})
	}
	if signup && len(password) < auth.MinPasswordLength {
		return fail(msgWeakPassword, &auth.Error{Op: "signup", Msg: msgWeakPassword, Err: auth.ErrWeakPassword})
	}

	var (
		session *auth.Session
		err     error
		prefix  = "Login failed: "
	)
	// No client lock here: the store publishes the change and the handler locks.
	if signup {
		prefix = "Signup failed: "
		session, err = w.creds.SignUp(ctx, email, password)
	} else {
		session, err = w.creds.SignIn(ctx, email, password)
	}
	if err != nil {
		return fail(prefix+authReason(err), asAuthError(err))
	}

	c, created := w.attach(session)
	if created {
		// The store did not announce the session; apply it here.
		c.mu.Lock()
		if err := w.Session.HandleSessionChange(ctx, c.state, auth.SessionChange{Token: session.Token, Session: session}); err != nil {
			log.Printf("Error loading patients after sign-in: %v", err)
		}
		c.mu.Unlock()
	}
	return c, c.View(), nil
}

// SignOut ends the session. Failures are logged and the client is shown
// signed out regardless.
func (w *Workspace) SignOut(ctx context.Context, token string) View {
	if token != "" {
		if err := w.creds.SignOut(ctx, token); err != nil {
			log.Printf("Error signing out: %v", err)
		}
		w.clients.Delete(token)
	}
	return w.Open(ctx, "").View()
}

func authReason(err error) string {
	var ae *auth.Error
	if errors.As(err, &ae) && ae.Err != nil {
		return ae.Err.Error()
	}
	return err.Error()
}

func asAuthError(err error) *auth.Error {
	var ae *auth.Error
	if errors.As(err, &ae) {
		return ae
	}
	return &auth.Error{Op: "auth", Err: err}
}
