package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CastVoteRequest struct {
	CandidateID *int64 `json:"candidateId"`
}

func (req *CastVoteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CandidateID, validation.Required, validation.Min(int64(1))),
	)
}
