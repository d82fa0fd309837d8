package domain

type CandidateVotes struct {
	CandidateID   uint    `json:"candidateId"`
	CandidateName string  `json:"candidateName"`
	Party         Party   `json:"party"`
	Count         int64   `json:"count"`
	Percentage    float64 `json:"percentage"`
}

type VoteStatistics struct {
	PerCandidate []CandidateVotes `json:"perCandidate"`
	Total        int64            `json:"total"`
}

type PartyStatistics struct {
	Party          Party   `json:"party"`
	CandidateCount int64   `json:"candidateCount"`
	Percentage     float64 `json:"percentage"`
}

type ElectionOverview struct {
	TotalCandidates  int64             `json:"totalCandidates"`
	TotalBallots     int64             `json:"totalBallots"`
	PartyStats       []PartyStatistics `json:"partyStats"`
	MostPopularParty *Party            `json:"mostPopularParty"`
}
