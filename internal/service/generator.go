package service

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/votecnp/election-api/internal/domain"
)

var (
	givenNames = []string{
		"Alexandru", "Maria", "Victor", "Elena", "Ion", "Ana", "Stefan", "Cristina",
		"Mihai", "Laura", "Andrei", "Diana", "Bogdan", "Roxana", "Florin", "Gabriela",
	}
	familyNames = []string{
		"Popescu", "Ionescu", "Dumitrescu", "Georgescu", "Vasilescu", "Marin", "Radu",
		"Munteanu", "Stoica", "Dragomir", "Neagu", "Popa", "Tudor", "Stan", "Lupu",
	}
	platforms = []string{
		"Economic development and job creation in every county.",
		"Education reform and digital schools.",
		"Environmental protection and green energy investment.",
		"Better hospitals and accessible healthcare.",
		"Modern roads, railways and public transit.",
		"Support for young entrepreneurs and innovation hubs.",
		"Transparent public administration and less bureaucracy.",
		"Affordable housing for families and young people.",
		"Justice system reform and the rule of law.",
		"Protection of culture, heritage and local communities.",
	}
)

// CandidateGenerator produces synthetic candidates for demos and load tests.
type CandidateGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewCandidateGenerator uses the package level source when rnd is nil.
func NewCandidateGenerator(rnd *rand.Rand) *CandidateGenerator {
	return &CandidateGenerator{
		rnd: rnd,
	}
}

func (g *CandidateGenerator) Next() domain.Candidate {
	parties := domain.Parties()

	return domain.Candidate{
		Name:        givenNames[g.intN(len(givenNames))] + " " + familyNames[g.intN(len(familyNames))],
		Description: platforms[g.intN(len(platforms))],
		ImageURL:    fmt.Sprintf("https://picsum.photos/200/200?random=%d", g.intN(1000)),
		Party:       parties[g.intN(len(parties))],
	}
}

func (g *CandidateGenerator) intN(n int) int {
	if g.rnd == nil {
		return rand.IntN(n)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.rnd.IntN(n)
}
