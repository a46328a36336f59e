package mapview

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
	"github.com/FACorreiaa/loci-citymap/internal/app/observability/metrics"
)

// SessionStore keeps mounted controllers. Sessions idle longer than the TTL
// are evicted, and every eviction or delete closes the controller.
type SessionStore struct {
	logger *zap.Logger
	cache  *cache.Cache
	active metric.Int64UpDownCounter
}

func NewSessionStore(ttl time.Duration, logger *zap.Logger) *SessionStore {
	s := &SessionStore{
		logger: logger,
		cache:  cache.New(ttl, ttl/2),
		active: metrics.Get().MapSessionsActive,
	}
	s.cache.OnEvicted(func(id string, v any) {
		ctrl, ok := v.(*Controller)
		if !ok {
			return
		}
		ctrl.Close()
		s.active.Add(context.Background(), -1)
		s.logger.Debug("Map session evicted", zap.String("session_id", id))
	})
	return s
}

func (s *SessionStore) Add(ctrl *Controller) {
	s.cache.SetDefault(ctrl.ID(), ctrl)
	s.active.Add(context.Background(), 1)
}

// Get returns the controller and slides its expiry.
func (s *SessionStore) Get(id string) (*Controller, error) {
	ctrl, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	s.touch(id, ctrl)
	return ctrl, nil
}

func (s *SessionStore) lookup(id string) (*Controller, error) {
	v, found := s.cache.Get(id)
	if !found {
		return nil, models.ErrSessionNotFound
	}
	return v.(*Controller), nil
}

// touch resets the expiry only if the session is still stored. A session
// deleted since lookup stays gone.
func (s *SessionStore) touch(id string, ctrl *Controller) {
	if ctrl.Closed() {
		return
	}
	_ = s.cache.Replace(id, ctrl, cache.DefaultExpiration)
}

// Delete closes and forgets a session. It reports whether it existed.
func (s *SessionStore) Delete(id string) bool {
	if _, found := s.cache.Get(id); !found {
		return false
	}
	s.cache.Delete(id)
	return true
}

func (s *SessionStore) Len() int { return s.cache.ItemCount() }

// CloseAll tears down every session, used on shutdown.
func (s *SessionStore) CloseAll() {
	s.cache.DeleteExpired()
	for id := range s.cache.Items() {
		s.cache.Delete(id)
	}
}
