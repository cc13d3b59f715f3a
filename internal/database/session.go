package database

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionKey = "db_session"

// ErrSessionReleased is returned by queries issued through a released session.
var ErrSessionReleased = errors.New("database session already released")

// Provider hands out one Session per request over a shared engine.
type Provider struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewProvider(db *gorm.DB, log *zap.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Session is the sole conduit to the database for one request.
// It is not safe for concurrent use.
type Session struct {
	db       *gorm.DB
	log      *zap.Logger
	started  time.Time
	released bool
}

// Acquire opens a session bound to ctx. Callers must Release it.
func (p *Provider) Acquire(ctx context.Context) *Session {
	return &Session{
		db:      p.db.WithContext(ctx),
		log:     p.log,
		started: time.Now(),
	}
}

// DB returns the handle for issuing queries. After Release every query on it
// fails with ErrSessionReleased.
func (s *Session) DB() *gorm.DB {
	if s.released {
		tx := s.db.Session(&gorm.Session{NewDB: true})
		_ = tx.AddError(ErrSessionReleased)
		return tx
	}
	return s.db
}

// Release closes the session. Calling it more than once is a no-op.
func (s *Session) Release() {
	if s.released {
		return
	}
	s.released = true
	s.log.Debug("Database session released", zap.Duration("lifetime", time.Since(s.started)))
}

// Released reports whether Release has been called.
func (s *Session) Released() bool {
	return s.released
}

// Middleware acquires a session for each request and releases it on every
// exit path, including panics unwinding through the handler chain.
func (p *Provider) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := p.Acquire(c.Request.Context())
		defer session.Release()

		c.Set(sessionKey, session)
		c.Next()
	}
}

// SessionFrom returns the session installed by Middleware.
func SessionFrom(c *gin.Context) (*Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	session, ok := v.(*Session)
	return session, ok
}
