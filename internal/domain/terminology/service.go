package terminology

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pediclinic/pediclinic/internal/platform/cache"
)

// Classifications are deterministic over a fixed catalog, so cached
// entries only go stale when the catalog itself changes.
const classifyCacheTTL = time.Hour

// Service provides CIE-10 catalog lookup and diagnosis classification.
type Service struct {
	repo       Repository
	classifier *Classifier
	cache      *cache.Cache
	log        zerolog.Logger
}

// NewService creates a new terminology service. A nil cache disables
// classification caching.
func NewService(repo Repository, c *cache.Cache, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		classifier: NewClassifier(Catalog),
		cache:      c,
		log:        log.With().Str("component", "terminology").Logger(),
	}
}

// List returns the full CIE-10 catalog.
func (s *Service) List(ctx context.Context) ([]*DiagnosisCode, error) {
	return s.repo.List(ctx)
}

// Search searches CIE-10 codes by code, description, or chapter text.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*DiagnosisCode, error) {
	if query == "" {
		return nil, fmt.Errorf("query parameter is required")
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.Search(ctx, query, limit)
}

// Lookup returns a single CIE-10 code entry.
func (s *Service) Lookup(ctx context.Context, code string) (*DiagnosisCode, error) {
	if code == "" {
		return nil, fmt.Errorf("code is required")
	}
	return s.repo.GetByCode(ctx, code)
}

// Describe returns the catalog description for a code. Used by the
// patients service to denormalize the diagnosis onto the record.
func (s *Service) Describe(ctx context.Context, code string) (string, error) {
	c, err := s.Lookup(ctx, code)
	if err != nil {
		return "", err
	}
	return c.Description, nil
}

// Classify maps a free-text diagnosis to the best matching CIE-10 code.
func (s *Service) Classify(ctx context.Context, diagnosis string) (*Classification, error) {
	if diagnosis == "" {
		return nil, fmt.Errorf("diagnosis is required")
	}

	key := "terminology:classify:" + strings.ToLower(strings.TrimSpace(diagnosis))
	var cached Classification
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	result := s.classifier.Classify(diagnosis)
	s.cache.Set(ctx, key, result, classifyCacheTTL)
	s.log.Debug().
		Str("diagnosis", diagnosis).
		Str("code", result.Code).
		Str("method", result.Method).
		Msg("classified diagnosis")
	return &result, nil
}

// SeedCatalog inserts the built-in CIE-10 catalog if the table is empty.
// It is idempotent and safe to run on every start.
func (s *Service) SeedCatalog(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("check cie10 catalog: %w", err)
	}
	if count > 0 {
		return nil
	}
	inserted, err := s.repo.Seed(ctx, Catalog)
	if err != nil {
		return fmt.Errorf("seed cie10 catalog: %w", err)
	}
	s.log.Info().Int("codes", inserted).Msg("seeded CIE-10 catalog")
	return nil
}
