package domain

import "time"

type Party string

const (
	PartyPSD         Party = "PSD"
	PartyPNL         Party = "PNL"
	PartyPOT         Party = "POT"
	PartyAUR         Party = "AUR"
	PartyIndependent Party = "Independent"
)

// Parties returns the closed set of parties a candidate may declare.
func Parties() []Party {
	return []Party{PartyPSD, PartyPNL, PartyPOT, PartyAUR, PartyIndependent}
}

func (p Party) Valid() bool {
	for _, party := range Parties() {
		if p == party {
			return true
		}
	}

	return false
}

type Candidate struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Party       Party     `json:"party"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CandidatePatch holds the fields of a partial update. Nil fields are left
// untouched.
type CandidatePatch struct {
	Name        *string
	Description *string
	ImageURL    *string
	Party       *Party
}

func (p CandidatePatch) Apply(c Candidate) Candidate {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	if p.Party != nil {
		c.Party = *p.Party
	}

	return c
}
