// Package session keeps request identity and flash messages in a signed
// cookie. The Manager middleware resolves the current user once per request
// and stores it in the echo context.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cafe-finder/internal/logger"
	"cafe-finder/internal/model"
	"cafe-finder/internal/service"
	"cafe-finder/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// ContextUserKey holds the authenticated *model.User, absent for anonymous requests.
	ContextUserKey = "user"

	contextSessionKey = "session"
)

// Revoker remembers logged-out session ids.
type Revoker interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// UserLoader fetches the user a session points at.
type UserLoader func(ctx context.Context, userID int) (*model.User, error)

type Options struct {
	Secret     []byte
	CookieName string
	// TTL <= 0 issues a browser-session cookie without expiry.
	TTL    time.Duration
	Secure bool
	// Revoker is optional.
	Revoker  Revoker
	LoadUser UserLoader
}

type Manager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	revoker    Revoker
	loadUser   UserLoader
}

var (
	defaultNewID = uuid.NewString
	newID        = defaultNewID
)

func NewManager(opts Options) *Manager {
	name := opts.CookieName
	if name == "" {
		name = "session"
	}
	return &Manager{
		secret:     opts.Secret,
		cookieName: name,
		ttl:        opts.TTL,
		secure:     opts.Secure,
		revoker:    opts.Revoker,
		loadUser:   opts.LoadUser,
	}
}

// Session is the per-request view of the cookie.
type Session struct {
	manager *Manager
	id      string
	userID  int
	flashes []model.Flash
	dirty   bool
}

// UserID returns the id stored in the session, 0 when anonymous.
func (s *Session) UserID() int { return s.userID }

// Flashes returns pending flashes without consuming them.
func (s *Session) Flashes() []model.Flash { return s.flashes }

// Middleware loads the session and the current user, and writes the cookie
// back before the response header goes out if anything changed.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := m.load(c)
			c.Set(contextSessionKey, s)

			if s.userID != 0 && m.loadUser != nil {
				user, err := m.loadUser(c.Request().Context(), s.userID)
				switch {
				case err == nil:
					c.Set(ContextUserKey, user)
				case errors.Is(err, store.ErrNotFound):
					s.userID = 0
					s.dirty = true
				default:
					return err
				}
			}

			c.Response().Before(func() {
				if s.dirty {
					m.write(c, s)
				}
			})
			return next(c)
		}
	}
}

func (m *Manager) load(c echo.Context) *Session {
	s := &Session{manager: m}
	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return s
	}

	claims, err := service.VerifySessionToken(m.secret, cookie.Value)
	if err != nil {
		logger.Log.Debugw("discarding session cookie", "error", err)
		s.dirty = true
		return s
	}
	s.id = claims.ID
	s.flashes = claims.Flashes

	if claims.UserID != 0 && m.revoker != nil {
		revoked, err := m.revoker.IsRevoked(c.Request().Context(), claims.ID)
		if err != nil {
			// identity cannot be confirmed, serve the request anonymously
			logger.Log.Warnw("session revocation check failed", "error", err)
			return s
		}
		if revoked {
			s.dirty = true
			return s
		}
	}
	s.userID = claims.UserID
	return s
}

func (m *Manager) write(c echo.Context, s *Session) {
	if s.id == "" {
		s.id = newID()
	}
	tok, err := service.IssueSessionToken(m.secret, service.SessionClaims{
		UserID:           s.userID,
		Flashes:          s.flashes,
		RegisteredClaims: jwt.RegisteredClaims{ID: s.id},
	}, m.ttl)
	if err != nil {
		logger.Log.Errorw("issue session token", "error", err)
		return
	}

	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.ttl > 0 {
		cookie.MaxAge = int(m.ttl.Seconds())
		cookie.Expires = time.Now().Add(m.ttl)
	}
	c.SetCookie(cookie)
	s.dirty = false
}

// FromContext returns the request session. Requests that did not pass
// through the middleware get a detached session that is never persisted.
func FromContext(c echo.Context) *Session {
	if s, ok := c.Get(contextSessionKey).(*Session); ok {
		return s
	}
	s := &Session{}
	c.Set(contextSessionKey, s)
	return s
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(ContextUserKey).(*model.User)
	return u, ok && u != nil
}

// Login binds the session to user under a fresh session id.
func Login(c echo.Context, user *model.User) {
	s := FromContext(c)
	s.id = newID()
	s.userID = user.ID
	s.dirty = true
	c.Set(ContextUserKey, user)
}

// Logout clears the identity and revokes the old session id when a Revoker
// is configured. The session is cleared even when revocation fails.
func Logout(c echo.Context) error {
	s := FromContext(c)
	oldID, hadUser := s.id, s.userID != 0

	s.id = newID()
	s.userID = 0
	s.dirty = true
	c.Set(ContextUserKey, nil)

	if hadUser && s.manager != nil && s.manager.revoker != nil {
		if err := s.manager.revoker.Revoke(c.Request().Context(), oldID, s.manager.ttl); err != nil {
			return err
		}
	}
	return nil
}

// AddFlash queues a message for the next rendered page.
func AddFlash(c echo.Context, category, message string) {
	s := FromContext(c)
	s.flashes = append(s.flashes, model.Flash{Category: category, Message: message})
	s.dirty = true
}

// PopFlashes returns and clears pending flashes.
func PopFlashes(c echo.Context) []model.Flash {
	s := FromContext(c)
	if len(s.flashes) == 0 {
		return nil
	}
	out := s.flashes
	s.flashes = nil
	s.dirty = true
	return out
}
