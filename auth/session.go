package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/choudharyperfumes/storefront/database"
	"github.com/choudharyperfumes/storefront/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "admin_session"
	DefaultTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
)

type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager issues and checks admin sessions. The cookie carries a signed
// token naming a stored session, so logging out revokes the token server side.
type Manager struct {
	admins   database.AdminStore
	sessions database.SessionStore
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(admins database.AdminStore, sessions database.SessionStore, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		admins:   admins,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Login checks the credentials and returns a signed session token.
func (m *Manager) Login(ctx context.Context, username, password string) (string, *models.AdminSession, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	user, err := m.admins.FindAdmin(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := m.now()
	sess := &models.AdminSession{
		ID:        uuid.NewString(),
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.sessions.CreateSession(ctx, sess); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	token, err := m.sign(sess)
	if err != nil {
		return "", nil, err
	}
	return token, sess, nil
}

func (m *Manager) sign(sess *models.AdminSession) (string, error) {
	claims := Claims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.Username,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	claims := token.Claims.(*Claims)
	if claims.SessionID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Validate accepts a token only when its signature and expiry hold and the
// session it names is stored and not revoked.
func (m *Manager) Validate(ctx context.Context, tokenStr string) (*models.AdminSession, error) {
	if tokenStr == "" {
		return nil, ErrInvalidSession
	}
	claims, err := m.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	sess, err := m.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if !sess.Active(m.now()) || sess.Username != claims.Subject {
		return nil, ErrInvalidSession
	}
	return sess, nil
}

// Logout revokes the session behind tokenStr. Unknown or malformed tokens are
// ignored.
func (m *Manager) Logout(ctx context.Context, tokenStr string) error {
	claims, err := m.parse(tokenStr)
	if err != nil {
		return nil
	}
	if err := m.sessions.RevokeSession(ctx, claims.SessionID); err != nil && !errors.Is(err, database.ErrNotFound) {
		return err
	}
	return nil
}

// ChangePassword replaces the admin password and revokes every session the
// admin holds, the caller's included.
func (m *Manager) ChangePassword(ctx context.Context, username, current, next string) error {
	user, err := m.admins.FindAdmin(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if err := CheckPassword(user.PasswordHash, current); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := m.admins.UpdateAdminPassword(ctx, user.Username, hash); err != nil {
		return err
	}
	return m.sessions.RevokeUserSessions(ctx, user.Username)
}
