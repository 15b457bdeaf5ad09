package settings

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/libradesk/circulation-desk/desk/internal/model"
	"github.com/libradesk/circulation-desk/pkg/auth"
)

// Fetcher is the slice of the circulation client this reader needs.
type Fetcher interface {
	GetSettings(ctx context.Context, sess auth.Session) (model.CirculationSettings, int, error)
	PutSettings(ctx context.Context, sess auth.Session, s model.CirculationSettings) (model.CirculationSettings, int, error)
}

// Service reads the staff-owned circulation limits. Fetched once per
// session and cached; the borrow flows only consume the values, the
// dedicated editor is the sole writer.
type Service struct {
	log     *zap.Logger
	fetcher Fetcher

	mu     sync.Mutex
	cached *model.CirculationSettings
}

func NewService(fetcher Fetcher, log *zap.Logger) *Service {
	return &Service{
		log:     log.Named("settings"),
		fetcher: fetcher,
	}
}

// Get returns the cached limits, fetching on first use. A fetch failure
// falls back to the defaults without poisoning the cache.
func (s *Service) Get(ctx context.Context, sess auth.Session) (model.CirculationSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, nil
	}
	fetched, _, err := s.fetcher.GetSettings(ctx, sess)
	if err != nil {
		s.log.Warn("settings fetch failed, using defaults", zap.Error(err))
		return model.DefaultSettings(), err
	}
	fetched.Clamp()
	s.cached = &fetched
	return fetched, nil
}

// Update pushes edited limits and refreshes the cache with the server's
// answer. Values are clamped the way the settings form clamps input.
func (s *Service) Update(ctx context.Context, sess auth.Session, next model.CirculationSettings) (model.CirculationSettings, error) {
	next.Clamp()
	saved, code, err := s.fetcher.PutSettings(ctx, sess, next)
	if err != nil {
		return model.CirculationSettings{}, err
	}
	if code != http.StatusOK {
		s.log.Warn("unexpected settings status", zap.Int("code", code))
	}
	saved.Clamp()

	s.mu.Lock()
	s.cached = &saved
	s.mu.Unlock()
	return saved, nil
}

// Invalidate drops the cache so the next Get re-reads the service.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
