package repository

import (
	"context"
	"fmt"

	"github.com/votecnp/election-api/internal/domain"
	"github.com/votecnp/election-api/internal/repository/dao"
)

var (
	ErrBallotExists   = dao.ErrBallotExists
	ErrBallotNotFound = dao.ErrBallotNotFound
)

type BallotDAO interface {
	InsertIfAbsent(ctx context.Context, voterID, candidateID uint) (dao.Ballot, error)
	FindByVoterID(ctx context.Context, voterID uint) (dao.Ballot, error)
	FindByCandidateID(ctx context.Context, candidateID uint) ([]dao.Ballot, error)
	Count(ctx context.Context) (int64, error)
	CountByCandidate(ctx context.Context) ([]dao.CandidateVoteCount, error)
}

type BallotRepository struct {
	dao BallotDAO
}

func NewBallotRepository(dao BallotDAO) *BallotRepository {
	return &BallotRepository{
		dao: dao,
	}
}

func (r *BallotRepository) InsertIfAbsent(ctx context.Context, voterID, candidateID uint) (domain.Ballot, error) {
	created, err := r.dao.InsertIfAbsent(ctx, voterID, candidateID)
	if err != nil {
		return domain.Ballot{}, fmt.Errorf("r.dao.InsertIfAbsent -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *BallotRepository) FindByVoterID(ctx context.Context, voterID uint) (domain.Ballot, error) {
	found, err := r.dao.FindByVoterID(ctx, voterID)
	if err != nil {
		return domain.Ballot{}, fmt.Errorf("r.dao.FindByVoterID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *BallotRepository) FindByCandidateID(ctx context.Context, candidateID uint) ([]domain.Ballot, error) {
	found, err := r.dao.FindByCandidateID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCandidateID -> %w", err)
	}

	ballots := make([]domain.Ballot, 0, len(found))
	for _, b := range found {
		ballots = append(ballots, r.daoToDomain(b))
	}

	return ballots, nil
}

func (r *BallotRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *BallotRepository) CountByCandidate(ctx context.Context) ([]domain.CandidateVotes, error) {
	rows, err := r.dao.CountByCandidate(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountByCandidate -> %w", err)
	}

	votes := make([]domain.CandidateVotes, 0, len(rows))
	for _, row := range rows {
		votes = append(votes, domain.CandidateVotes{
			CandidateID:   row.CandidateID,
			CandidateName: row.Name,
			Party:         domain.Party(row.Party),
			Count:         row.VoteCount,
		})
	}

	return votes, nil
}

func (r *BallotRepository) daoToDomain(b dao.Ballot) domain.Ballot {
	return domain.Ballot{
		ID:          b.ID,
		VoterID:     b.VoterID,
		CandidateID: b.CandidateID,
		CreatedAt:   b.CreatedAt,
	}
}
