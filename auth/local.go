package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ariebrainware/patient-registry/config"
	"github.com/ariebrainware/patient-registry/model"
	"github.com/ariebrainware/patient-registry/util"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	maxFailedAttempts = 5
	lockDuration      = 15 * time.Minute
)

// LocalStore keeps accounts and sessions in SQL. Sessions are signed JWTs,
// cached in Redis when a client is configured.
type LocalStore struct {
	Notifier

	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewLocalStore returns a credential store on db issuing sessions valid for ttl.
func NewLocalStore(db *gorm.DB, ttl time.Duration) *LocalStore {
	return &LocalStore{db: db, ttl: ttl, now: time.Now}
}

// Migrate creates the users and sessions tables.
func (s *LocalStore) Migrate() error {
	return s.db.AutoMigrate(&model.User{}, &model.Session{})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *LocalStore) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	ci := clientFrom(ctx)

	if email == "" || password == "" {
		return nil, &Error{Op: "signup", Msg: "Signup failed", Err: ErrMissingCredentials}
	}
	if len(password) < MinPasswordLength {
		return nil, &Error{Op: "signup", Msg: "Signup failed", Err: ErrWeakPassword}
	}

	var existing model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		util.LogSecurityEvent(util.SecurityEvent{EventType: util.EventSignupFailure, Email: email, IP: ci.IP, UserAgent: ci.Agent, Message: "Signup failed: email already registered"})
		return nil, &Error{Op: "signup", Msg: "Signup failed", Err: ErrEmailInUse}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &Error{Op: "signup", Msg: "Signup failed", Err: err}
	}

	salt, err := util.GenerateSalt()
	if err != nil {
		return nil, &Error{Op: "signup", Msg: "Signup failed", Err: err}
	}
	hashed, err := util.HashPasswordArgon2(password, salt)
	if err != nil {
		return nil, &Error{Op: "signup", Msg: "Signup failed", Err: err}
	}

	user := model.User{
		UID:          uuid.NewString(),
		Email:        email,
		Password:     hashed,
		PasswordSalt: salt,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, &Error{Op: "signup", Msg: "Signup failed", Err: err}
	}
	util.LogSignup(user.UID, user.Email, ci.IP, ci.Agent)

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, &Error{Op: "signup", Msg: "Signup failed", Err: err}
	}
	s.Publish(ctx, SessionChange{Token: session.Token, Session: session})
	return session, nil
}

func (s *LocalStore) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	ci := clientFrom(ctx)

	if email == "" || password == "" {
		return nil, &Error{Op: "signin", Msg: "Login failed", Err: ErrMissingCredentials}
	}

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.LogLoginFailure(email, ci.IP, ci.Agent, "user not found")
		return nil, &Error{Op: "signin", Msg: "Login failed", Err: ErrInvalidCredentials}
	}
	if err != nil {
		util.LogLoginFailure(email, ci.IP, ci.Agent, "database error")
		return nil, &Error{Op: "signin", Msg: "Login failed", Err: err}
	}

	if user.LockedUntil != nil && *user.LockedUntil > s.now().Unix() {
		util.LogLoginFailure(email, ci.IP, ci.Agent, "account locked")
		until := time.Unix(*user.LockedUntil, 0).UTC().Format(time.RFC3339)
		return nil, &Error{Op: "signin", Msg: "Login failed", Err: fmt.Errorf("%w until %s", ErrAccountLocked, until)}
	}

	match, err := util.VerifyPassword(password, user.Password, user.PasswordSalt)
	if err != nil {
		util.LogLoginFailure(email, ci.IP, ci.Agent, "password verification error")
		return nil, &Error{Op: "signin", Msg: "Login failed", Err: err}
	}
	if !match {
		s.recordFailedAttempt(ctx, &user, ci)
		util.LogLoginFailure(email, ci.IP, ci.Agent, "invalid password")
		return nil, &Error{Op: "signin", Msg: "Login failed", Err: ErrInvalidCredentials}
	}

	if user.FailedAttempts > 0 || user.LockedUntil != nil {
		user.FailedAttempts = 0
		user.LockedUntil = nil
		if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
			util.LogSecurityEvent(util.SecurityEvent{EventType: util.EventSuspiciousActivity, UserID: user.UID, Email: user.Email, IP: ci.IP, Message: fmt.Sprintf("Failed to reset failed attempts: %v", err)})
		}
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		util.LogLoginFailure(email, ci.IP, ci.Agent, "session creation failed")
		return nil, &Error{Op: "signin", Msg: "Login failed", Err: err}
	}
	util.LogLoginSuccess(user.UID, user.Email, ci.IP, ci.Agent)
	s.Publish(ctx, SessionChange{Token: session.Token, Session: session})
	return session, nil
}

func (s *LocalStore) recordFailedAttempt(ctx context.Context, user *model.User, ci ClientInfo) {
	user.FailedAttempts++
	if user.FailedAttempts >= maxFailedAttempts {
		lockUntil := s.now().Add(lockDuration).Unix()
		user.LockedUntil = &lockUntil
		util.LogAccountLocked(user.UID, user.Email, ci.IP, "too many failed login attempts")
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		util.LogLoginFailure(user.Email, ci.IP, ci.Agent, "failed to update failed attempts")
	}
	if user.LockedUntil != nil {
		s.revokeSessions(ctx, user.UID)
	}
}

// revokeSessions ends every open session of uid and announces each one.
func (s *LocalStore) revokeSessions(ctx context.Context, uid string) {
	var rows []model.Session
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).Find(&rows).Error; err != nil {
		log.Printf("Failed to list sessions of %s: %v", uid, err)
		return
	}
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.Session{}).Error; err != nil {
		log.Printf("Failed to revoke sessions of %s: %v", uid, err)
		return
	}
	if err := util.InvalidateUserSessions(ctx, uid); err != nil {
		log.Printf("Failed to invalidate cached sessions of %s: %v", uid, err)
	}
	for _, row := range rows {
		s.Publish(ctx, SessionChange{Token: row.SessionToken})
	}
}

// SignOut ends the session behind token. Signing out an unknown or expired
// token still notifies subscribers so the client falls back to signed out.
func (s *LocalStore) SignOut(ctx context.Context, token string) error {
	ci := clientFrom(ctx)

	var session model.Session
	err := s.db.WithContext(ctx).Where("session_token = ?", token).First(&session).Error
	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).Delete(&session).Error; err != nil {
			return &Error{Op: "signout", Msg: "Logout failed", Err: err}
		}
		if rdb := config.GetRedisClient(); rdb != nil {
			_ = rdb.Del(ctx, util.SessionKey(token)).Err()
			_ = util.RemoveSessionTokenFromUserSet(ctx, session.UID, token)
		}
		util.LogLogout(session.UID, session.Email, ci.IP, ci.Agent)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Op: "signout", Msg: "Logout failed", Err: err}
	}

	s.Publish(ctx, SessionChange{Token: token})
	return nil
}

func (s *LocalStore) Current(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	claims, ok := s.parseToken(token)
	if !ok {
		return nil, nil
	}

	if rdb := config.GetRedisClient(); rdb != nil {
		raw, err := rdb.Get(ctx, util.SessionKey(token)).Result()
		if err == nil {
			var cached Session
			if json.Unmarshal([]byte(raw), &cached) == nil && cached.UserID == claims.UID {
				cached.Token = token
				return &cached, nil
			}
		} else if err != redis.Nil {
			util.LogSecurityEvent(util.SecurityEvent{EventType: util.EventSuspiciousActivity, IP: clientFrom(ctx).IP, Message: fmt.Sprintf("Session cache lookup failed: %v", err)})
		}
	}

	var row model.Session
	err := s.db.WithContext(ctx).
		Where("session_token = ? AND expires_at > ?", token, s.now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Op: "session", Msg: "Session lookup failed", Err: err}
	}
	return &Session{Token: token, UserID: row.UID, Email: row.Email, ExpiresAt: row.ExpiresAt}, nil
}

type sessionClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *LocalStore) openSession(ctx context.Context, user model.User) (*Session, error) {
	ci := clientFrom(ctx)
	issued := s.now()
	expires := issued.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UID:   user.UID,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(util.GetJWTSecretByte())
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	row := model.Session{
		SessionToken: signed,
		UserID:       user.ID,
		UID:          user.UID,
		Email:        user.Email,
		ExpiresAt:    expires,
		ClientIP:     ci.IP,
		Browser:      ci.Agent,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}

	session := &Session{Token: signed, UserID: user.UID, Email: user.Email, ExpiresAt: expires}
	if rdb := config.GetRedisClient(); rdb != nil {
		if b, err := json.Marshal(session); err == nil {
			_ = rdb.Set(ctx, util.SessionKey(signed), b, s.ttl).Err()
			_ = util.AddSessionToUserSet(ctx, user.UID, signed, s.ttl)
		}
	}
	return session, nil
}

func (s *LocalStore) parseToken(raw string) (*sessionClaims, bool) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return util.GetJWTSecretByte(), nil
	})
	if err != nil || !token.Valid || claims.UID == "" {
		return nil, false
	}
	return claims, true
}
