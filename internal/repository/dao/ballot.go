package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBallotExists   = errors.New("voter already has a ballot")
	ErrBallotNotFound = errors.New("ballot not found")
)

// Ballot rows are append-only. The unique index on voter_id is what enforces
// one ballot per voter, including under concurrent inserts.
type Ballot struct {
	ID          uint      `gorm:"primaryKey"`
	VoterID     uint      `gorm:"not null;uniqueIndex:uni_ballots_voter_id"`
	Voter       Voter     `gorm:"foreignKey:VoterID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CandidateID uint      `gorm:"not null;index"`
	Candidate   Candidate `gorm:"foreignKey:CandidateID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt   time.Time `gorm:"not null"`
}

type CandidateVoteCount struct {
	CandidateID uint
	Name        string
	Party       string
	VoteCount   int64
}

type BallotDAO struct {
	db *gorm.DB
}

func NewBallotDAO(db *gorm.DB) *BallotDAO {
	return &BallotDAO{
		db: db,
	}
}

// InsertIfAbsent appends a ballot for voterID. It never reads before writing:
// a second ballot for the same voter is rejected by the database and reported
// as ErrBallotExists.
func (d *BallotDAO) InsertIfAbsent(ctx context.Context, voterID, candidateID uint) (Ballot, error) {
	ballot := Ballot{
		VoterID:     voterID,
		CandidateID: candidateID,
	}

	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&ballot)
	if result.Error != nil {
		if isUniqueViolation(result.Error, constraintBallotVoterID) {
			return Ballot{}, ErrBallotExists
		}
		if name, ok := isForeignKeyViolation(result.Error); ok {
			if strings.Contains(name, constraintBallotCandidate) {
				return Ballot{}, ErrCandidateNotFound
			}

			return Ballot{}, ErrVoterNotFound
		}

		return Ballot{}, result.Error
	}

	return ballot, nil
}

func (d *BallotDAO) FindByVoterID(ctx context.Context, voterID uint) (Ballot, error) {
	var ballot Ballot

	result := d.db.WithContext(ctx).First(&ballot, "voter_id = ?", voterID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ballot{}, ErrBallotNotFound
		}

		return Ballot{}, result.Error
	}

	return ballot, nil
}

func (d *BallotDAO) FindByCandidateID(ctx context.Context, candidateID uint) ([]Ballot, error) {
	var ballots []Ballot

	result := d.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&ballots)
	if result.Error != nil {
		return nil, result.Error
	}

	return ballots, nil
}

func (d *BallotDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Ballot{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// CountByCandidate groups ballots per candidate. Candidates without ballots
// are absent from the result.
func (d *BallotDAO) CountByCandidate(ctx context.Context) ([]CandidateVoteCount, error) {
	var counts []CandidateVoteCount

	result := d.db.WithContext(ctx).
		Model(&Ballot{}).
		Select("ballots.candidate_id AS candidate_id, candidates.name AS name, candidates.party AS party, COUNT(ballots.id) AS vote_count").
		Joins("JOIN candidates ON candidates.id = ballots.candidate_id").
		Group("ballots.candidate_id, candidates.name, candidates.party").
		Order("vote_count DESC").
		Order("ballots.candidate_id ASC").
		Scan(&counts)
	if result.Error != nil {
		return nil, result.Error
	}

	return counts, nil
}
