package model

import "time"

// TimeCommitment is how much time a participant expects to contribute
type TimeCommitment string

const (
	CommitmentCasual    TimeCommitment = "casual"
	CommitmentRegular   TimeCommitment = "regular"
	CommitmentDedicated TimeCommitment = "dedicated"
	CommitmentFullTime  TimeCommitment = "full_time"
)

// Interests is the derived interest record for a profile. One per profile,
// upserted on completion, never appended.
type Interests struct {
	ID                string         `json:"id" bson:"_id,omitempty"`
	ProfileID         string         `json:"profileId" bson:"profileId"`
	CivicSectors      []string       `json:"civicSectors,omitempty" bson:"civicSectors,omitempty"`
	InnovationDomains []string       `json:"innovationDomains,omitempty" bson:"innovationDomains,omitempty"`
	Skills            []string       `json:"skills,omitempty" bson:"skills,omitempty"`
	TimeCommitment    TimeCommitment `json:"timeCommitment,omitempty" bson:"timeCommitment,omitempty"`
	CreatedAt         time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt" bson:"updatedAt"`
}
