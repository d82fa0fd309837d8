package response

import (
	"time"

	"github.com/votecnp/election-api/internal/domain"
)

type RegisterResponse struct {
	Message string       `json:"message"`
	Voter   domain.Voter `json:"voter"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	Voter domain.Voter `json:"voter"`
}

type VoterBallotResponse struct {
	HasVoted bool           `json:"hasVoted"`
	Ballot   *domain.Ballot `json:"ballot"`
}

type CandidateBallotCountResponse struct {
	CandidateID uint  `json:"candidateId"`
	Count       int64 `json:"count"`
}

type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}
