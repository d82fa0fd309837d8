package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votecnp/election-api/internal/domain"
	"github.com/votecnp/election-api/internal/event"
	"github.com/votecnp/election-api/internal/repository"
)

func newVoteFixture() (*memDB, *VoteService, *StatisticsService) {
	db := newMemDB()
	stats := NewStatisticsService(db.Ballots(), db.Candidates(), nil, 0)
	votes := NewVoteService(db.Ballots(), db.Candidates(), event.NopPublisher{}, stats)

	return db, votes, stats
}

func TestVoteService_SingleVoterScenario(t *testing.T) {
	ctx := context.Background()
	db, votes, stats := newVoteFixture()
	a := db.addCandidate("A", domain.PartyPSD)
	b := db.addCandidate("B", domain.PartyPNL)
	const voterX uint = 100

	ballot, err := votes.CastVote(ctx, voterX, a.ID)
	require.NoError(t, err)
	assert.NotZero(t, ballot.ID)
	assert.False(t, ballot.CreatedAt.IsZero())

	voted, err := votes.HasVoted(ctx, voterX)
	require.NoError(t, err)
	assert.True(t, voted)

	found, ok, err := votes.GetVoterBallot(ctx, voterX)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.ID, found.CandidateID)

	_, err = votes.CastVote(ctx, voterX, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	counts, err := stats.VoteCountsByCandidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CandidateVotes{
		{CandidateID: a.ID, CandidateName: "A", Party: domain.PartyPSD, Count: 1, Percentage: 100},
	}, counts)
}

func TestVoteService_TwoVotersSameCandidate(t *testing.T) {
	ctx := context.Background()
	db, votes, stats := newVoteFixture()
	a := db.addCandidate("A", domain.PartyPSD)

	_, err := votes.CastVote(ctx, 1, a.ID)
	require.NoError(t, err)
	_, err = votes.CastVote(ctx, 2, a.ID)
	require.NoError(t, err)

	total, err := stats.TotalBallotCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	counts, err := stats.VoteCountsByCandidate(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, a.ID, counts[0].CandidateID)
	assert.EqualValues(t, 2, counts[0].Count)
	assert.InDelta(t, 100.0, counts[0].Percentage, 1e-9)
}

func TestVoteService_UnknownCandidate(t *testing.T) {
	ctx := context.Background()
	db, votes, _ := newVoteFixture()
	db.addCandidate("A", domain.PartyPSD)

	_, err := votes.CastVote(ctx, 1, 999)
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	voted, err := votes.HasVoted(ctx, 1)
	require.NoError(t, err)
	assert.False(t, voted)
}

// voterlessBallots fails the voter foreign key on every insert.
type voterlessBallots struct{ *memBallots }

func (voterlessBallots) InsertIfAbsent(context.Context, uint, uint) (domain.Ballot, error) {
	return domain.Ballot{}, repository.ErrVoterNotFound
}

func TestVoteService_VoterRemovedBeforeInsert(t *testing.T) {
	db := newMemDB()
	a := db.addCandidate("A", domain.PartyPSD)
	listener := &countingListener{}
	votes := NewVoteService(voterlessBallots{db.Ballots()}, db.Candidates(), event.NopPublisher{}, listener)

	_, err := votes.CastVote(context.Background(), 1, a.ID)
	assert.ErrorIs(t, err, ErrVoterNotFound)
	assert.NotErrorIs(t, err, ErrStorage)
	assert.Empty(t, listener.calls)
}

func TestVoteService_InvalidInput(t *testing.T) {
	_, votes, _ := newVoteFixture()

	_, err := votes.CastVote(context.Background(), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidVote)
	_, err = votes.CastVote(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidVote)
}

func TestVoteService_ConcurrentVotesFromOneVoter(t *testing.T) {
	ctx := context.Background()
	db, votes, _ := newVoteFixture()
	c1 := db.addCandidate("A", domain.PartyPSD)
	c2 := db.addCandidate("B", domain.PartyAUR)
	const voter uint = 42
	const attempts = 50

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		candidate := c1.ID
		if i%2 == 1 {
			candidate = c2.ID
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := votes.CastVote(ctx, voter, candidate)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrAlreadyVoted):
				rejected++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)

	total, err := db.Ballots().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestVoteService_StorageFailure(t *testing.T) {
	ctx := context.Background()
	db, votes, _ := newVoteFixture()
	a := db.addCandidate("A", domain.PartyPSD)
	db.fail = errStoreDown

	_, err := votes.CastVote(ctx, 1, a.ID)
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrAlreadyVoted)

	_, _, err = votes.GetVoterBallot(ctx, 1)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestVoteService_NotifiesAfterCommit(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	a := db.addCandidate("A", domain.PartyPSD)
	listener := &countingListener{}
	publisher := &recordingPublisher{err: errors.New("broker unavailable")}
	votes := NewVoteService(db.Ballots(), db.Candidates(), publisher, listener)

	ballot, err := votes.CastVote(ctx, 1, a.ID)
	require.NoError(t, err, "publishing failures must not fail the vote")

	_, err = votes.CastVote(ctx, 1, a.ID)
	require.ErrorIs(t, err, ErrAlreadyVoted)

	assert.Equal(t, []domain.Ballot{ballot}, listener.calls)
	assert.Equal(t, []string{string(event.TypeBallotCast)}, publisher.events)
}

func TestVoteService_CandidateBallotCount(t *testing.T) {
	ctx := context.Background()
	db, votes, _ := newVoteFixture()
	a := db.addCandidate("A", domain.PartyPSD)
	b := db.addCandidate("B", domain.PartyPNL)

	for voter := uint(1); voter <= 3; voter++ {
		_, err := votes.CastVote(ctx, voter, a.ID)
		require.NoError(t, err)
	}

	n, err := votes.CandidateBallotCount(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = votes.CandidateBallotCount(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = votes.CandidateBallotCount(ctx, 999)
	assert.ErrorIs(t, err, ErrCandidateNotFound)
}
