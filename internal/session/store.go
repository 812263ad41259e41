package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/andriev/inventory-api/internal/models"
)

var ErrNotFound = errors.New("session not found")

const (
	DefaultTTL           = 24 * time.Hour
	DefaultSweepInterval = 15 * time.Minute
)

// Store persists sessions in the relational database. Destroying a session
// takes effect on the next request, there is no client-side state to revoke.
type Store struct {
	DB     *gorm.DB
	Secret []byte
	TTL    time.Duration
}

func NewStore(db *gorm.DB, secret []byte, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{DB: db, Secret: secret, TTL: ttl}
}

func (s *Store) Create(ctx context.Context, userUUID string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("session: generating id: %w", err)
	}
	sid := base64.RawURLEncoding.EncodeToString(raw)

	sess := models.Session{
		SID:       sid,
		UserUUID:  userUUID,
		ExpiresAt: time.Now().Add(s.TTL),
	}
	if err := s.DB.WithContext(ctx).Create(&sess).Error; err != nil {
		return "", fmt.Errorf("session: %w", err)
	}

	return sid, nil
}

// Get returns the live session for sid. Expired rows are removed on read and
// reported as ErrNotFound.
func (s *Store) Get(ctx context.Context, sid string) (*models.Session, error) {
	var sess models.Session
	if err := s.DB.WithContext(ctx).First(&sess, "sid = ?", sid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: %w", err)
	}

	if time.Now().After(sess.ExpiresAt) {
		// Best effort: a row that survives here is picked up by the next
		// DeleteExpired sweep.
		_ = s.DB.WithContext(ctx).Delete(&models.Session{}, "sid = ?", sid).Error
		return nil, ErrNotFound
	}

	return &sess, nil
}

func (s *Store) Destroy(ctx context.Context, sid string) error {
	if err := s.DB.WithContext(ctx).Delete(&models.Session{}, "sid = ?", sid).Error; err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

func (s *Store) DeleteExpired(ctx context.Context) error {
	if err := s.DB.WithContext(ctx).Delete(&models.Session{}, "expires_at < ?", time.Now()).Error; err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// StartSweeper removes expired sessions every interval until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := s.DeleteExpired(ctx); err != nil {
					log.Error("session sweep failed", "error", err)
				}
			}
		}
	}()
}
