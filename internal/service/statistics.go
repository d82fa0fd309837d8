package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/votecnp/election-api/internal/cache"
	"github.com/votecnp/election-api/internal/domain"
)

// Vote statistics are cached per generation. Invalidate bumps the generation,
// so a snapshot computed before a ballot committed lands under a key no reader
// asks for again.
const voteStatisticsGenerationKey = "stats:votes:gen"

func voteStatisticsKey(generation int64) string {
	return fmt.Sprintf("stats:votes:%d", generation)
}

type BallotCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByCandidate(ctx context.Context) ([]domain.CandidateVotes, error)
}

type CandidateCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByParty(ctx context.Context) (map[domain.Party]int64, error)
}

type StatisticsService struct {
	ballots    BallotCounter
	candidates CandidateCounter
	cache      cache.Cache
	ttl        time.Duration
}

func NewStatisticsService(ballots BallotCounter, candidates CandidateCounter, c cache.Cache, ttl time.Duration) *StatisticsService {
	if c == nil {
		c = cache.Nop{}
	}

	return &StatisticsService{
		ballots:    ballots,
		candidates: candidates,
		cache:      c,
		ttl:        ttl,
	}
}

// VoteCountsByCandidate returns one entry per candidate holding at least one
// ballot, sorted by count descending and candidate id ascending.
func (s *StatisticsService) VoteCountsByCandidate(ctx context.Context) ([]domain.CandidateVotes, error) {
	stats, err := s.VoteStatistics(ctx)
	if err != nil {
		return nil, err
	}

	return stats.PerCandidate, nil
}

func (s *StatisticsService) TotalBallotCount(ctx context.Context) (int64, error) {
	total, err := s.ballots.Count(ctx)
	if err != nil {
		return 0, storageErr("s.ballots.Count", err)
	}

	return total, nil
}

// VoteStatistics reads through the cache. Percentages and the total are
// derived from the same grouped counts so a snapshot always adds up.
func (s *StatisticsService) VoteStatistics(ctx context.Context) (domain.VoteStatistics, error) {
	// The generation must be read before the counts.
	generation, err := s.cache.Counter(ctx, voteStatisticsGenerationKey)
	if err != nil {
		zap.L().Warn("reading vote statistics generation failed", zap.Error(err))
		return s.loadVoteStatistics(ctx)
	}
	key := voteStatisticsKey(generation)

	var cached domain.VoteStatistics
	err = s.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		zap.L().Warn("reading vote statistics from cache failed", zap.Error(err))
	}

	stats, err := s.loadVoteStatistics(ctx)
	if err != nil {
		return domain.VoteStatistics{}, err
	}

	if err := s.cache.Set(ctx, key, stats, s.ttl); err != nil {
		zap.L().Warn("caching vote statistics failed", zap.Error(err))
	}

	return stats, nil
}

func (s *StatisticsService) loadVoteStatistics(ctx context.Context) (domain.VoteStatistics, error) {
	counts, err := s.ballots.CountByCandidate(ctx)
	if err != nil {
		return domain.VoteStatistics{}, storageErr("s.ballots.CountByCandidate", err)
	}

	return computeVoteStatistics(counts), nil
}

// PartyStatistics covers every party, including those without candidates.
func (s *StatisticsService) PartyStatistics(ctx context.Context) ([]domain.PartyStatistics, error) {
	counts, err := s.candidates.CountByParty(ctx)
	if err != nil {
		return nil, storageErr("s.candidates.CountByParty", err)
	}

	return computePartyStatistics(counts), nil
}

func (s *StatisticsService) Overview(ctx context.Context) (domain.ElectionOverview, error) {
	totalCandidates, err := s.candidates.Count(ctx)
	if err != nil {
		return domain.ElectionOverview{}, storageErr("s.candidates.Count", err)
	}

	totalBallots, err := s.TotalBallotCount(ctx)
	if err != nil {
		return domain.ElectionOverview{}, err
	}

	partyStats, err := s.PartyStatistics(ctx)
	if err != nil {
		return domain.ElectionOverview{}, err
	}

	overview := domain.ElectionOverview{
		TotalCandidates: totalCandidates,
		TotalBallots:    totalBallots,
		PartyStats:      partyStats,
	}
	if len(partyStats) > 0 && partyStats[0].CandidateCount > 0 {
		party := partyStats[0].Party
		overview.MostPopularParty = &party
	}

	return overview, nil
}

// Invalidate moves vote statistics to a new generation.
func (s *StatisticsService) Invalidate(ctx context.Context) {
	generation, err := s.cache.Incr(ctx, voteStatisticsGenerationKey)
	if err != nil {
		zap.L().Warn("invalidating vote statistics failed", zap.Error(err))
		return
	}

	if err := s.cache.Delete(ctx, voteStatisticsKey(generation-1)); err != nil {
		zap.L().Warn("dropping stale vote statistics failed", zap.Error(err))
	}
}

func (s *StatisticsService) BallotCast(ctx context.Context, _ domain.Ballot) {
	s.Invalidate(ctx)
}

func computeVoteStatistics(counts []domain.CandidateVotes) domain.VoteStatistics {
	perCandidate := make([]domain.CandidateVotes, 0, len(counts))
	var total int64
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		perCandidate = append(perCandidate, c)
		total += c.Count
	}

	for i := range perCandidate {
		perCandidate[i].Percentage = float64(perCandidate[i].Count) / float64(total) * 100
	}

	slices.SortStableFunc(perCandidate, func(a, b domain.CandidateVotes) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.CandidateID, b.CandidateID)
	})

	return domain.VoteStatistics{
		PerCandidate: perCandidate,
		Total:        total,
	}
}

func computePartyStatistics(counts map[domain.Party]int64) []domain.PartyStatistics {
	var total int64
	for _, party := range domain.Parties() {
		total += counts[party]
	}

	stats := make([]domain.PartyStatistics, 0, len(domain.Parties()))
	for _, party := range domain.Parties() {
		stat := domain.PartyStatistics{
			Party:          party,
			CandidateCount: counts[party],
		}
		if total > 0 {
			stat.Percentage = float64(stat.CandidateCount) / float64(total) * 100
		}
		stats = append(stats, stat)
	}

	// Stable so equal counts keep enumeration order.
	slices.SortStableFunc(stats, func(a, b domain.PartyStatistics) int {
		return cmp.Compare(b.CandidateCount, a.CandidateCount)
	})

	return stats
}
