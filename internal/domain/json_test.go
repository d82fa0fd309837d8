package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonKeys(t *testing.T, v any) []string {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	return keys
}

func TestJSONKeysAreCamelCase(t *testing.T) {
	party := PartyPSD
	values := map[string]any{
		"voter":            Voter{},
		"candidate":        Candidate{},
		"ballot":           Ballot{},
		"candidate votes":  CandidateVotes{},
		"vote statistics":  VoteStatistics{},
		"party statistics": PartyStatistics{},
		"overview":         ElectionOverview{MostPopularParty: &party},
	}

	for name, v := range values {
		t.Run(name, func(t *testing.T) {
			for _, key := range jsonKeys(t, v) {
				assert.NotContains(t, key, "_")
				assert.Equal(t, strings.ToLower(key[:1]), key[:1], key)
			}
		})
	}

	assert.ElementsMatch(t, []string{"id", "voterId", "candidateId", "createdAt"}, jsonKeys(t, Ballot{}))
	assert.ElementsMatch(t, []string{"party", "candidateCount", "percentage"}, jsonKeys(t, PartyStatistics{}))
}
