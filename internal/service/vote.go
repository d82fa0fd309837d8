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
	ErrAlreadyVoted = errors.New("voter has already cast a ballot")
	ErrInvalidVote  = errors.New("voter id and candidate id must be positive")
)

type BallotRepository interface {
	InsertIfAbsent(ctx context.Context, voterID, candidateID uint) (domain.Ballot, error)
	FindByVoterID(ctx context.Context, voterID uint) (domain.Ballot, error)
	FindByCandidateID(ctx context.Context, candidateID uint) ([]domain.Ballot, error)
}

type CandidateFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Candidate, error)
}

// BallotListener is notified after a ballot has been committed.
type BallotListener interface {
	BallotCast(ctx context.Context, ballot domain.Ballot)
}

type VoteService struct {
	ballots    BallotRepository
	candidates CandidateFinder
	events     event.Publisher
	listeners  []BallotListener
}

func NewVoteService(ballots BallotRepository, candidates CandidateFinder, events event.Publisher, listeners ...BallotListener) *VoteService {
	if events == nil {
		events = event.NopPublisher{}
	}

	return &VoteService{
		ballots:    ballots,
		candidates: candidates,
		events:     events,
		listeners:  listeners,
	}
}

// CastVote records the single ballot of a voter. The ballot store rejects a
// second ballot atomically; there is no read before the insert.
func (s *VoteService) CastVote(ctx context.Context, voterID, candidateID uint) (domain.Ballot, error) {
	if voterID == 0 || candidateID == 0 {
		return domain.Ballot{}, ErrInvalidVote
	}

	if _, err := s.candidates.FindByID(ctx, candidateID); err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return domain.Ballot{}, ErrCandidateNotFound
		}

		return domain.Ballot{}, storageErr("s.candidates.FindByID", err)
	}

	ballot, err := s.ballots.InsertIfAbsent(ctx, voterID, candidateID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBallotExists):
			return domain.Ballot{}, ErrAlreadyVoted
		case errors.Is(err, repository.ErrCandidateNotFound):
			// Candidate removed between the lookup and the insert.
			return domain.Ballot{}, ErrCandidateNotFound
		case errors.Is(err, repository.ErrVoterNotFound):
			// Voter removed after authentication.
			return domain.Ballot{}, ErrVoterNotFound
		default:
			return domain.Ballot{}, storageErr("s.ballots.InsertIfAbsent", err)
		}
	}

	s.committed(context.WithoutCancel(ctx), ballot)

	return ballot, nil
}

// GetVoterBallot reports false when the voter has not voted yet.
func (s *VoteService) GetVoterBallot(ctx context.Context, voterID uint) (domain.Ballot, bool, error) {
	ballot, err := s.ballots.FindByVoterID(ctx, voterID)
	if err != nil {
		if errors.Is(err, repository.ErrBallotNotFound) {
			return domain.Ballot{}, false, nil
		}

		return domain.Ballot{}, false, storageErr("s.ballots.FindByVoterID", err)
	}

	return ballot, true, nil
}

func (s *VoteService) HasVoted(ctx context.Context, voterID uint) (bool, error) {
	_, voted, err := s.GetVoterBallot(ctx, voterID)

	return voted, err
}

// CandidateBallotCount counts the ballots cast for one candidate.
func (s *VoteService) CandidateBallotCount(ctx context.Context, candidateID uint) (int64, error) {
	if _, err := s.candidates.FindByID(ctx, candidateID); err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return 0, ErrCandidateNotFound
		}

		return 0, storageErr("s.candidates.FindByID", err)
	}

	ballots, err := s.ballots.FindByCandidateID(ctx, candidateID)
	if err != nil {
		return 0, storageErr("s.ballots.FindByCandidateID", err)
	}

	return int64(len(ballots)), nil
}

func (s *VoteService) committed(ctx context.Context, ballot domain.Ballot) {
	for _, l := range s.listeners {
		l.BallotCast(ctx, ballot)
	}

	evt := event.New(event.TypeBallotCast, strconv.FormatUint(uint64(ballot.CandidateID), 10), ballot)
	if err := s.events.Publish(ctx, evt); err != nil {
		zap.L().Warn("publishing ballot event failed",
			zap.Uint("ballot_id", ballot.ID),
			zap.Error(err),
		)
	}
}
