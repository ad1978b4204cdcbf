// Package auth manages accounts and session tokens for the registry.
package auth

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already registered")
	ErrAccountLocked      = errors.New("account is temporarily locked")
	ErrNotSignedIn        = errors.New("not signed in")
)

// Session is the authenticated identity behind a session token.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionChange is delivered whenever the session behind Token changes.
// A nil Session means the client is signed out.
type SessionChange struct {
	Token   string
	Session *Session
}

func (c SessionChange) SignedIn() bool {
	return c.Session != nil
}

// Listener receives session changes synchronously, in the caller's goroutine.
type Listener func(ctx context.Context, change SessionChange)

// CredentialStore is the authentication service.
type CredentialStore interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	// Current returns the live session behind token, or nil when there is none.
	Current(ctx context.Context, token string) (*Session, error)
	Subscribe(fn Listener) (unsubscribe func())
}

// Error is an authentication failure or an action attempted without a session.
type Error struct {
	Op  string
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Notifier fans session changes out to subscribers.
type Notifier struct {
	mu        sync.Mutex
	next      int
	listeners map[int]Listener
}

func (n *Notifier) Subscribe(fn Listener) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listeners == nil {
		n.listeners = make(map[int]Listener)
	}
	id := n.next
	n.next++
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// Publish calls every listener in subscription order. Listeners may subscribe
// or unsubscribe while being called.
func (n *Notifier) Publish(ctx context.Context, change SessionChange) {
	n.mu.Lock()
	ids := make([]int, 0, len(n.listeners))
	for id := range n.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, n.listeners[id])
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(ctx, change)
	}
}

// ClientInfo describes the caller of an auth operation, for session rows and security logs.
type ClientInfo struct {
	IP    string
	Agent string
}

type clientKey struct{}

// WithClient attaches caller information to ctx.
func WithClient(ctx context.Context, ci ClientInfo) context.Context {
	return context.WithValue(ctx, clientKey{}, ci)
}

func clientFrom(ctx context.Context) ClientInfo {
	ci, _ := ctx.Value(clientKey{}).(ClientInfo)
	return ci
}
