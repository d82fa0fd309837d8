package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParty_Valid(t *testing.T) {
	for _, p := range Parties() {
		assert.True(t, p.Valid(), p)
	}

	assert.False(t, Party("USR").Valid())
	assert.False(t, Party("psd").Valid())
	assert.False(t, Party("").Valid())
}

func TestCandidatePatch_Apply(t *testing.T) {
	c := Candidate{ID: 1, Name: "Ana Marin", Description: "Advocate for education reform.", ImageURL: "https://img/1", Party: PartyPSD}

	name := "Ana Marin-Pop"
	party := PartyAUR
	got := CandidatePatch{Name: &name, Party: &party}.Apply(c)

	assert.Equal(t, "Ana Marin-Pop", got.Name)
	assert.Equal(t, PartyAUR, got.Party)
	assert.Equal(t, c.Description, got.Description)
	assert.Equal(t, c.ImageURL, got.ImageURL)
	assert.Equal(t, "Ana Marin", c.Name)
}
