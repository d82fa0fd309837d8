package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/votecnp/election-api/internal/domain"
)

const (
	nameMinLength        = 2
	nameMaxLength        = 100
	descriptionMinLength = 10
	descriptionMaxLength = 1000
)

func partyValues() []interface{} {
	parties := domain.Parties()
	values := make([]interface{}, 0, len(parties))
	for _, p := range parties {
		values = append(values, string(p))
	}

	return values
}

type CreateCandidateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Party       string `json:"party"`
}

func (req *CreateCandidateRequest) Validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.ImageURL = strings.TrimSpace(req.ImageURL)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(nameMinLength, nameMaxLength)),
		validation.Field(&req.Description, validation.Required, validation.Length(descriptionMinLength, descriptionMaxLength)),
		validation.Field(&req.ImageURL, validation.Required, is.RequestURL),
		validation.Field(&req.Party, validation.Required, validation.In(partyValues()...)),
	)
}

func (req *CreateCandidateRequest) ToDomain() domain.Candidate {
	return domain.Candidate{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Party:       domain.Party(req.Party),
	}
}

// UpdateCandidateRequest is a partial update; absent fields keep their value.
type UpdateCandidateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	Party       *string `json:"party"`
}

func (req *UpdateCandidateRequest) Validate() error {
	trim(req.Name)
	trim(req.Description)
	trim(req.ImageURL)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(nameMinLength, nameMaxLength)),
		validation.Field(&req.Description, validation.NilOrNotEmpty, validation.Length(descriptionMinLength, descriptionMaxLength)),
		validation.Field(&req.ImageURL, validation.NilOrNotEmpty, is.RequestURL),
		validation.Field(&req.Party, validation.NilOrNotEmpty, validation.In(partyValues()...)),
	)
}

func (req *UpdateCandidateRequest) ToPatch() domain.CandidatePatch {
	patch := domain.CandidatePatch{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.Party != nil {
		party := domain.Party(*req.Party)
		patch.Party = &party
	}

	return patch
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
