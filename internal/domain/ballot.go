package domain

import "time"

// Ballot records that a voter voted for a candidate. A voter owns at most one
// ballot and ballots are never updated or deleted.
type Ballot struct {
	ID          uint      `json:"id"`
	VoterID     uint      `json:"voterId"`
	CandidateID uint      `json:"candidateId"`
	CreatedAt   time.Time `json:"createdAt"`
}
