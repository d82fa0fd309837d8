package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/votecnp/election-api/internal/domain"
	"github.com/votecnp/election-api/internal/event"
	"github.com/votecnp/election-api/internal/repository"
)

var (
	ErrCandidateNotFound   = repository.ErrCandidateNotFound
	ErrCandidateHasBallots = repository.ErrCandidateHasBallots
)

type CandidateRepository interface {
	Create(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error)
	FindByID(ctx context.Context, id uint) (domain.Candidate, error)
	FindAll(ctx context.Context) ([]domain.Candidate, error)
	Update(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error)
	Delete(ctx context.Context, id uint) error
}

// StatisticsInvalidator drops derived statistics after the data behind them
// changed.
type StatisticsInvalidator interface {
	Invalidate(ctx context.Context)
}

type CandidateService struct {
	repo        CandidateRepository
	events      event.Publisher
	invalidator StatisticsInvalidator
	generator   *CandidateGenerator
}

func NewCandidateService(repo CandidateRepository, events event.Publisher, invalidator StatisticsInvalidator, generator *CandidateGenerator) *CandidateService {
	if events == nil {
		events = event.NopPublisher{}
	}
	if generator == nil {
		generator = NewCandidateGenerator(nil)
	}

	return &CandidateService{
		repo:        repo,
		events:      events,
		invalidator: invalidator,
		generator:   generator,
	}
}

func (s *CandidateService) List(ctx context.Context) ([]domain.Candidate, error) {
	candidates, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, storageErr("s.repo.FindAll", err)
	}

	return candidates, nil
}

func (s *CandidateService) Get(ctx context.Context, id uint) (domain.Candidate, error) {
	candidate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return domain.Candidate{}, ErrCandidateNotFound
		}

		return domain.Candidate{}, storageErr("s.repo.FindByID", err)
	}

	return candidate, nil
}

func (s *CandidateService) Create(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	created, err := s.repo.Create(ctx, candidate)
	if err != nil {
		return domain.Candidate{}, storageErr("s.repo.Create", err)
	}

	s.changed(ctx, event.TypeCandidateCreated, created.ID, created)

	return created, nil
}

func (s *CandidateService) Update(ctx context.Context, id uint, patch domain.CandidatePatch) (domain.Candidate, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Candidate{}, err
	}

	updated, err := s.repo.Update(ctx, patch.Apply(current))
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return domain.Candidate{}, ErrCandidateNotFound
		}

		return domain.Candidate{}, storageErr("s.repo.Update", err)
	}

	s.changed(ctx, event.TypeCandidateUpdated, updated.ID, updated)

	return updated, nil
}

// Delete refuses to remove a candidate that already received ballots.
func (s *CandidateService) Delete(ctx context.Context, id uint) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCandidateNotFound):
			return ErrCandidateNotFound
		case errors.Is(err, repository.ErrCandidateHasBallots):
			return ErrCandidateHasBallots
		default:
			return storageErr("s.repo.Delete", err)
		}
	}

	s.changed(ctx, event.TypeCandidateDeleted, id, map[string]uint{"id": id})

	return nil
}

// Generate stores a synthetic candidate.
func (s *CandidateService) Generate(ctx context.Context) (domain.Candidate, error) {
	return s.Create(ctx, s.generator.Next())
}

func (s *CandidateService) changed(ctx context.Context, t event.Type, id uint, payload any) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}

	if err := s.events.Publish(ctx, event.New(t, strconv.FormatUint(uint64(id), 10), payload)); err != nil {
		zap.L().Warn("publishing candidate event failed",
			zap.String("type", string(t)),
			zap.Uint("candidate_id", id),
			zap.Error(err),
		)
	}
}
