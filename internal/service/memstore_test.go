package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/votecnp/election-api/internal/domain"
	"github.com/votecnp/election-api/internal/event"
	"github.com/votecnp/election-api/internal/repository"
)

var errStoreDown = errors.New("connection refused")

// memDB mimics the constraints of the SQL schema: unique CNP, one ballot per
// voter and RESTRICT on candidates referenced by ballots.
type memDB struct {
	mu         sync.Mutex
	fail       error
	nextID     uint
	voters     map[uint]domain.Voter
	candidates map[uint]domain.Candidate
	ballots    map[uint]domain.Ballot
}

func newMemDB() *memDB {
	return &memDB{
		voters:     map[uint]domain.Voter{},
		candidates: map[uint]domain.Candidate{},
		ballots:    map[uint]domain.Ballot{},
	}
}

func (db *memDB) id() uint {
	db.nextID++
	return db.nextID
}

func (db *memDB) Voters() *memVoters         { return &memVoters{db} }
func (db *memDB) Candidates() *memCandidates { return &memCandidates{db} }
func (db *memDB) Ballots() *memBallots       { return &memBallots{db} }

func (db *memDB) addCandidate(name string, party domain.Party) domain.Candidate {
	c, _ := db.Candidates().Create(context.Background(), domain.Candidate{Name: name, Party: party})
	return c
}

type memVoters struct{ db *memDB }

func (r *memVoters) Create(_ context.Context, voter domain.Voter) (domain.Voter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return domain.Voter{}, r.db.fail
	}
	for _, v := range r.db.voters {
		if v.CNP == voter.CNP {
			return domain.Voter{}, repository.ErrVoterCNPExists
		}
	}
	voter.ID = r.db.id()
	voter.CreatedAt = time.Now()
	r.db.voters[voter.ID] = voter

	return voter, nil
}

func (r *memVoters) FindByID(_ context.Context, id uint) (domain.Voter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return domain.Voter{}, r.db.fail
	}
	v, ok := r.db.voters[id]
	if !ok {
		return domain.Voter{}, repository.ErrVoterNotFound
	}

	return v, nil
}

func (r *memVoters) FindByCNP(_ context.Context, cnp string) (domain.Voter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return domain.Voter{}, r.db.fail
	}
	for _, v := range r.db.voters {
		if v.CNP == cnp {
			return v, nil
		}
	}

	return domain.Voter{}, repository.ErrVoterNotFound
}

type memCandidates struct{ db *memDB }

func (r *memCandidates) Create(_ context.Context, c domain.Candidate) (domain.Candidate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return domain.Candidate{}, r.db.fail
	}
	c.ID = r.db.id()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.db.candidates[c.ID] = c

	return c, nil
}

func (r *memCandidates) FindByID(_ context.Context, id uint) (domain.Candidate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return domain.Candidate{}, r.db.fail
	}
	c, ok := r.db.candidates[id]
	if !ok {
		return domain.Candidate{}, repository.ErrCandidateNotFound
	}

	return c, nil
}

func (r *memCandidates) FindAll(_ context.Context) ([]domain.Candidate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return nil, r.db.fail
	}
	all := make([]domain.Candidate, 0, len(r.db.candidates))
	for _, c := range r.db.candidates {
		all = append(all, c)
	}
	slices.SortFunc(all, func(a, b domain.Candidate) int { return cmp.Compare(b.ID, a.ID) })

	return all, nil
}

func (r *memCandidates) Update(_ context.Context, c domain.Candidate) (domain.Candidate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return domain.Candidate{}, r.db.fail
	}
	if _, ok := r.db.candidates[c.ID]; !ok {
		return domain.Candidate{}, repository.ErrCandidateNotFound
	}
	c.UpdatedAt = time.Now()
	r.db.candidates[c.ID] = c

	return c, nil
}

func (r *memCandidates) Delete(_ context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return r.db.fail
	}
	if _, ok := r.db.candidates[id]; !ok {
		return repository.ErrCandidateNotFound
	}
	for _, b := range r.db.ballots {
		if b.CandidateID == id {
			return repository.ErrCandidateHasBallots
		}
	}
	delete(r.db.candidates, id)

	return nil
}

func (r *memCandidates) Count(_ context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return 0, r.db.fail
	}

	return int64(len(r.db.candidates)), nil
}

func (r *memCandidates) CountByParty(_ context.Context) (map[domain.Party]int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return nil, r.db.fail
	}
	counts := map[domain.Party]int64{}
	for _, c := range r.db.candidates {
		counts[c.Party]++
	}

	return counts, nil
}

// memBallots keys ballots by voter id, so the map itself is the uniqueness
// constraint.
type memBallots struct{ db *memDB }

func (r *memBallots) InsertIfAbsent(_ context.Context, voterID, candidateID uint) (domain.Ballot, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return domain.Ballot{}, r.db.fail
	}
	if _, ok := r.db.ballots[voterID]; ok {
		return domain.Ballot{}, repository.ErrBallotExists
	}
	if _, ok := r.db.candidates[candidateID]; !ok {
		return domain.Ballot{}, repository.ErrCandidateNotFound
	}
	b := domain.Ballot{ID: r.db.id(), VoterID: voterID, CandidateID: candidateID, CreatedAt: time.Now()}
	r.db.ballots[voterID] = b

	return b, nil
}

func (r *memBallots) FindByVoterID(_ context.Context, voterID uint) (domain.Ballot, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return domain.Ballot{}, r.db.fail
	}
	b, ok := r.db.ballots[voterID]
	if !ok {
		return domain.Ballot{}, repository.ErrBallotNotFound
	}

	return b, nil
}

func (r *memBallots) FindByCandidateID(_ context.Context, candidateID uint) ([]domain.Ballot, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return nil, r.db.fail
	}
	var out []domain.Ballot
	for _, b := range r.db.ballots {
		if b.CandidateID == candidateID {
			out = append(out, b)
		}
	}

	return out, nil
}

func (r *memBallots) Count(_ context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return 0, r.db.fail
	}

	return int64(len(r.db.ballots)), nil
}

func (r *memBallots) CountByCandidate(_ context.Context) ([]domain.CandidateVotes, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return nil, r.db.fail
	}
	counts := map[uint]int64{}
	for _, b := range r.db.ballots {
		counts[b.CandidateID]++
	}
	out := make([]domain.CandidateVotes, 0, len(counts))
	for id, n := range counts {
		c := r.db.candidates[id]
		out = append(out, domain.CandidateVotes{CandidateID: id, CandidateName: c.Name, Party: c.Party, Count: n})
	}

	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	err    error
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, evt event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, string(evt.Type))

	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type countingListener struct {
	mu    sync.Mutex
	calls []domain.Ballot
}

func (l *countingListener) BallotCast(_ context.Context, b domain.Ballot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, b)
}

type countingInvalidator struct {
	mu    sync.Mutex
	count int
}

func (i *countingInvalidator) Invalidate(context.Context) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.count++
}
