// Package proposal builds the outbound request to the text-generation
// collaborator and parses its response into a structured bid proposal.
package proposal

import "time"

// Analysis is the optional structured assessment attached by the
// collaborator. Every field is optional; absent fields keep their zero
// values.
type Analysis struct {
	Recommendation string   `json:"recommendation,omitempty"`
	Confidence     float64  `json:"confidence,omitempty"`
	EstimatedHours float64  `json:"estimatedHours,omitempty"`
	EstimatedCost  float64  `json:"estimatedCost,omitempty"`
	Timeline       string   `json:"timeline,omitempty"`
	Deliverables   []string `json:"deliverables,omitempty"`
	Risks          []string `json:"risks,omitempty"`
	Questions      []string `json:"questions,omitempty"`
	MatchedSkills  []string `json:"matchedSkills,omitempty"`
	MissingSkills  []string `json:"missingSkills,omitempty"`
}

// Proposal is the generated bid artifact, keyed by project id. A failed
// generation is stored as a Proposal too, with Failed set and the error
// text in the body, so the user can see it and regenerate.
type Proposal struct {
	ProjectID         string    `json:"projectId"`
	Proposal          string    `json:"proposal"`
	KeyPoints         []string  `json:"keyPoints,omitempty"`
	EstimatedTimeline string    `json:"estimatedTimeline,omitempty"`
	Analysis          Analysis  `json:"analysis"`
	Rate              float64   `json:"rate"`
	EstimatedHours    int       `json:"estimatedHours"`
	EstimatedCost     float64   `json:"estimatedCost"`
	GeneratedAt       time.Time `json:"generatedAt"`
	Failed            bool      `json:"failed,omitempty"`
}
