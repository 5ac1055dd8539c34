package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/nulzo/model-catalog/internal/core/ports"
	"github.com/nulzo/model-catalog/internal/store"
	"github.com/nulzo/model-catalog/internal/store/cache"
	"github.com/nulzo/model-catalog/internal/tokenizer"
	"github.com/nulzo/model-catalog/pkg/catalog"
	"go.uber.org/zap"
)

// ErrUnknownFamily is returned when filtering by a family that does not exist.
var ErrUnknownFamily = errors.New("unknown model family")

// TokenCounter computes prompt budgets. *tokenizer.Counter satisfies it.
type TokenCounter interface {
	Budget(model catalog.ModelID, prompt string) (tokenizer.Budget, error)
}

type modelService struct {
	logger  *zap.Logger
	repo    store.Repository
	cache   cache.Service
	counter TokenCounter
	ttl     time.Duration
}

func NewModelService(logger *zap.Logger, repo store.Repository, c cache.Service, counter TokenCounter, ttl time.Duration) ports.ModelService {
	return &modelService{
		logger:  logger,
		repo:    repo,
		cache:   c,
		counter: counter,
		ttl:     ttl,
	}
}

func cacheKey(id string) string {
	return "model:" + id
}

// Import stores nothing when any record in the listing is malformed.
func (s *modelService) Import(ctx context.Context, payload []byte) (int, error) {
	list, err := catalog.DecodeModelList(payload)
	if err != nil {
		return 0, err
	}

	if err := s.repo.Models().Upsert(ctx, list.Data...); err != nil {
		return 0, fmt.Errorf("failed to store models: %w", err)
	}

	for _, m := range list.Data {
		s.invalidate(ctx, m.ID)
		if _, err := m.Lookup(); err != nil {
			s.logger.Debug("Imported model is not cataloged", zap.String("model", m.ID))
		}
	}

	s.logger.Info("Models imported", zap.Int("models_count", len(list.Data)))
	return len(list.Data), nil
}

func (s *modelService) List(ctx context.Context) ([]catalog.Model, error) {
	return s.repo.Models().List(ctx)
}

func (s *modelService) Get(ctx context.Context, id string) (*catalog.Model, error) {
	var cached catalog.Model
	err := s.cache.Get(ctx, cacheKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Cache read failed", zap.String("model", id), zap.Error(err))
	}

	m, err := s.repo.Models().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey(id), m, s.ttl); err != nil {
		s.logger.Warn("Cache write failed", zap.String("model", id), zap.Error(err))
	}
	return m, nil
}

func (s *modelService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Models().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.logger.Info("Model deleted", zap.String("model", id))
	return nil
}

func (s *modelService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.logger.Warn("Cache invalidation failed", zap.String("model", id), zap.Error(err))
	}
}

func (s *modelService) Describe(id string) (catalog.Entry, error) {
	m, err := catalog.Parse(id)
	if err != nil {
		return catalog.Entry{}, err
	}
	return catalog.Describe(m), nil
}

func (s *modelService) Catalog(family catalog.Family) ([]catalog.Entry, error) {
	if family != "" && !slices.Contains(catalog.Families(), family) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	entries := catalog.EntriesFor(family)
	if entries == nil {
		entries = []catalog.Entry{}
	}
	return entries, nil
}

func (s *modelService) Budget(ctx context.Context, id, prompt string) (tokenizer.Budget, error) {
	m, err := catalog.Parse(id)
	if err != nil {
		return tokenizer.Budget{}, err
	}
	if err := ctx.Err(); err != nil {
		return tokenizer.Budget{}, err
	}

	budget, err := s.counter.Budget(m, prompt)
	if err != nil {
		return budget, err
	}
	s.logger.Debug("Prompt budget computed",
		zap.String("model", budget.Model),
		zap.Int("prompt_tokens", budget.Prompt),
		zap.Int("remaining", budget.Remaining),
	)
	return budget, nil
}
