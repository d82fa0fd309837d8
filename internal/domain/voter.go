package domain

import "time"

// Voter is identified by a 13 digit CNP (national numeric code).
type Voter struct {
	ID        uint      `json:"id"`
	CNP       string    `json:"cnp"`
	CreatedAt time.Time `json:"createdAt"`
}
