package repository

import (
	"context"
	"fmt"

	"github.com/votecnp/election-api/internal/domain"
	"github.com/votecnp/election-api/internal/repository/dao"
)

var (
	ErrVoterCNPExists = dao.ErrVoterCNPExists
	ErrVoterNotFound  = dao.ErrVoterNotFound
)

type VoterDAO interface {
	Insert(ctx context.Context, voter dao.Voter) (dao.Voter, error)
	FindByID(ctx context.Context, id uint) (dao.Voter, error)
	FindByCNP(ctx context.Context, cnp string) (dao.Voter, error)
}

type VoterRepository struct {
	dao VoterDAO
}

func NewVoterRepository(dao VoterDAO) *VoterRepository {
	return &VoterRepository{
		dao: dao,
	}
}

func (r *VoterRepository) Create(ctx context.Context, voter domain.Voter) (domain.Voter, error) {
	created, err := r.dao.Insert(ctx, dao.Voter{
		CNP: voter.CNP,
	})
	if err != nil {
		return domain.Voter{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *VoterRepository) FindByID(ctx context.Context, id uint) (domain.Voter, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Voter{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *VoterRepository) FindByCNP(ctx context.Context, cnp string) (domain.Voter, error) {
	found, err := r.dao.FindByCNP(ctx, cnp)
	if err != nil {
		return domain.Voter{}, fmt.Errorf("r.dao.FindByCNP -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *VoterRepository) daoToDomain(v dao.Voter) domain.Voter {
	return domain.Voter{
		ID:        v.ID,
		CNP:       v.CNP,
		CreatedAt: v.CreatedAt,
	}
}
