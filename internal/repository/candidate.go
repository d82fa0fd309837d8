package repository

import (
	"context"
	"fmt"

	"github.com/votecnp/election-api/internal/domain"
	"github.com/votecnp/election-api/internal/repository/dao"
)

var (
	ErrCandidateNotFound   = dao.ErrCandidateNotFound
	ErrCandidateHasBallots = dao.ErrCandidateHasBallots
)

type CandidateDAO interface {
	Insert(ctx context.Context, candidate dao.Candidate) (dao.Candidate, error)
	FindByID(ctx context.Context, id uint) (dao.Candidate, error)
	FindAll(ctx context.Context) ([]dao.Candidate, error)
	Update(ctx context.Context, candidate dao.Candidate) (dao.Candidate, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountByParty(ctx context.Context) ([]dao.PartyCount, error)
}

type CandidateRepository struct {
	dao CandidateDAO
}

func NewCandidateRepository(dao CandidateDAO) *CandidateRepository {
	return &CandidateRepository{
		dao: dao,
	}
}

func (r *CandidateRepository) Create(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(candidate))
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CandidateRepository) FindByID(ctx context.Context, id uint) (domain.Candidate, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CandidateRepository) FindAll(ctx context.Context) ([]domain.Candidate, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(found))
	for _, c := range found {
		candidates = append(candidates, r.daoToDomain(c))
	}

	return candidates, nil
}

func (r *CandidateRepository) Update(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(candidate))
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *CandidateRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *CandidateRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *CandidateRepository) CountByParty(ctx context.Context) (map[domain.Party]int64, error) {
	rows, err := r.dao.CountByParty(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountByParty -> %w", err)
	}

	counts := make(map[domain.Party]int64, len(rows))
	for _, row := range rows {
		counts[domain.Party(row.Party)] = row.CandidateCount
	}

	return counts, nil
}

func (r *CandidateRepository) domainToDao(c domain.Candidate) dao.Candidate {
	return dao.Candidate{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Party:       string(c.Party),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (r *CandidateRepository) daoToDomain(c dao.Candidate) domain.Candidate {
	return domain.Candidate{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Party:       domain.Party(c.Party),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
