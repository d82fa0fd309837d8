package service

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votecnp/election-api/internal/domain"
	"github.com/votecnp/election-api/internal/event"
)

func TestCandidateService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	publisher := &recordingPublisher{}
	invalidator := &countingInvalidator{}
	svc := NewCandidateService(db.Candidates(), publisher, invalidator, nil)

	created, err := svc.Create(ctx, domain.Candidate{
		Name:        "Elena Georgescu",
		Description: "Healthcare for every village.",
		ImageURL:    "https://example.com/elena.png",
		Party:       domain.PartyPNL,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	name := "Elena G. Georgescu"
	party := domain.PartyIndependent
	updated, err := svc.Update(ctx, created.ID, domain.CandidatePatch{Name: &name, Party: &party})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, party, updated.Party)
	assert.Equal(t, created.Description, updated.Description)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	assert.Equal(t, []string{
		string(event.TypeCandidateCreated),
		string(event.TypeCandidateUpdated),
		string(event.TypeCandidateDeleted),
	}, publisher.events)
	assert.Equal(t, 3, invalidator.count)
}

func TestCandidateService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewCandidateService(newMemDB().Candidates(), nil, nil, nil)

	_, err := svc.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	name := "Nobody"
	_, err = svc.Update(ctx, 1, domain.CandidatePatch{Name: &name})
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 1), ErrCandidateNotFound)
}

func TestCandidateService_DeleteWithBallots(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	c := db.addCandidate("A", domain.PartyPSD)
	_, err := db.Ballots().InsertIfAbsent(ctx, 1, c.ID)
	require.NoError(t, err)

	svc := NewCandidateService(db.Candidates(), nil, nil, nil)
	err = svc.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, ErrCandidateHasBallots)

	_, err = svc.Get(ctx, c.ID)
	assert.NoError(t, err)
}

func TestCandidateService_StorageFailure(t *testing.T) {
	db := newMemDB()
	db.fail = errStoreDown
	svc := NewCandidateService(db.Candidates(), nil, nil, nil)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, ErrStorage)
	_, err = svc.Generate(context.Background())
	assert.ErrorIs(t, err, ErrStorage)
}

func TestCandidateService_Generate(t *testing.T) {
	db := newMemDB()
	gen := NewCandidateGenerator(rand.New(rand.NewPCG(1, 2)))
	svc := NewCandidateService(db.Candidates(), nil, nil, gen)

	for i := 0; i < 20; i++ {
		c, err := svc.Generate(context.Background())
		require.NoError(t, err)
		assert.NotZero(t, c.ID)
		assert.GreaterOrEqual(t, len(strings.TrimSpace(c.Name)), 2)
		assert.GreaterOrEqual(t, len(strings.TrimSpace(c.Description)), 10)
		assert.True(t, strings.HasPrefix(c.ImageURL, "https://picsum.photos/200/200?random="))
		assert.True(t, c.Party.Valid())
	}
}

func TestCandidateGenerator_Deterministic(t *testing.T) {
	a := NewCandidateGenerator(rand.New(rand.NewPCG(7, 7)))
	b := NewCandidateGenerator(rand.New(rand.NewPCG(7, 7)))

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}
