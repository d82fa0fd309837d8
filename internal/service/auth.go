package service

import (
	"context"
	"errors"

	"github.com/votecnp/election-api/internal/domain"
	"github.com/votecnp/election-api/internal/repository"
)

var (
	ErrVoterCNPExists = repository.ErrVoterCNPExists
	ErrVoterNotFound  = repository.ErrVoterNotFound
)

type VoterRepository interface {
	Create(ctx context.Context, voter domain.Voter) (domain.Voter, error)
	FindByID(ctx context.Context, id uint) (domain.Voter, error)
	FindByCNP(ctx context.Context, cnp string) (domain.Voter, error)
}

type AuthService struct {
	repo VoterRepository
}

func NewAuthService(repo VoterRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// Register creates a voter. A CNP can only be registered once; the voters
// table enforces it.
func (s *AuthService) Register(ctx context.Context, cnp string) (domain.Voter, error) {
	created, err := s.repo.Create(ctx, domain.Voter{CNP: cnp})
	if err != nil {
		if errors.Is(err, repository.ErrVoterCNPExists) {
			return domain.Voter{}, ErrVoterCNPExists
		}

		return domain.Voter{}, storageErr("s.repo.Create", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, cnp string) (domain.Voter, error) {
	return s.GetVoterByCNP(ctx, cnp)
}

func (s *AuthService) GetVoterByCNP(ctx context.Context, cnp string) (domain.Voter, error) {
	voter, err := s.repo.FindByCNP(ctx, cnp)
	if err != nil {
		if errors.Is(err, repository.ErrVoterNotFound) {
			return domain.Voter{}, ErrVoterNotFound
		}

		return domain.Voter{}, storageErr("s.repo.FindByCNP", err)
	}

	return voter, nil
}

// ResolveVoter loads the voter a verified session token refers to.
func (s *AuthService) ResolveVoter(ctx context.Context, voterID uint) (domain.Voter, error) {
	voter, err := s.repo.FindByID(ctx, voterID)
	if err != nil {
		if errors.Is(err, repository.ErrVoterNotFound) {
			return domain.Voter{}, ErrVoterNotFound
		}

		return domain.Voter{}, storageErr("s.repo.FindByID", err)
	}

	return voter, nil
}
