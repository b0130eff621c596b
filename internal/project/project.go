package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind tags the project variant so consumers are forced to distinguish
// real postings from synthetic status placeholders.
type Kind string

const (
	// KindReal is a normalized marketplace posting.
	KindReal Kind = "real"
	// KindInstruction is a synthetic record carrying system status
	// (offline, no results, fetch error) through the same list the
	// dashboard renders. Instruction records never take part in scoring
	// or aggregate statistics.
	KindInstruction Kind = "instruction"
)

// Client carries the listing's client-quality signals.
type Client struct {
	TotalSpent      float64 `json:"totalSpent"`
	HireRate        float64 `json:"hireRate"`
	FeedbackRate    float64 `json:"feedbackRate"`
	PaymentVerified bool    `json:"paymentVerified"`
}

// Project is the canonical representation of one job posting.
type Project struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Link           string    `json:"link"`
	PostedDate     time.Time `json:"postedDate"`
	Category       string    `json:"category"`
	Budget         string    `json:"budget"`
	BudgetMin      float64   `json:"budgetMin"`
	BudgetMax      float64   `json:"budgetMax"`
	IsHourly       bool      `json:"isHourly"`
	EstimatedHours int       `json:"estimatedHours"`
	Skills         []string  `json:"skills,omitempty"`
	Country        string    `json:"country,omitempty"`
	Client         Client    `json:"client"`
	MatchScore     int       `json:"matchScore"`
	SearchKeyword  string    `json:"searchKeyword,omitempty"`
}

// IsInstruction reports whether the record is a synthetic placeholder.
func (p *Project) IsInstruction() bool {
	return p.Kind == KindInstruction
}

// SyntheticID builds a fallback identifier for records without a stable
// source id. Uniqueness holds even across duplicate links; re-fetch
// deduplication for such records is approximate by design.
func SyntheticID(link string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s-%d-%s", link, time.Now().UnixNano(), suffix)
}

const findWorkURL = "https://www.upwork.com/nx/find-work/"

func newInstruction(id, title, description string) *Project {
	return &Project{
		ID:          id,
		Kind:        KindInstruction,
		Title:       title,
		Description: description,
		Link:        findWorkURL,
		PostedDate:  time.Now(),
		Category:    "System",
		Budget:      "N/A",
	}
}

// NewOfflineNotice is the placeholder published when the proxy liveness
// probe fails.
func NewOfflineNotice(apiURL string) *Project {
	description := fmt.Sprintf(`The backend proxy server is not responding.

If you're the admin:
1. Make sure the backend is deployed
2. Check that the proxy URL is set correctly

Current API URL: %s

Contact your team admin if this issue persists.`, apiURL)

	return newInstruction("proxy-offline", "Proxy Server Offline", description)
}

// NewNoResults is the placeholder published when the proxy is reachable
// but no records matched the keyword plan.
func NewNoResults(keywords []string) *Project {
	description := fmt.Sprintf(`No projects matched your keywords. Try:

- Using broader search terms
- Adding more common keywords
- Waiting a few minutes and refreshing

Current keywords: %s`, strings.Join(keywords, ", "))

	return newInstruction("no-results", "No Projects Found", description)
}

// NewFetchError is the placeholder published when the batch call itself
// failed after a successful liveness probe.
func NewFetchError(err error) *Project {
	description := fmt.Sprintf("Error: %v\n\nPlease try refreshing again.", err)
	return newInstruction("fetch-error", "Error Fetching Projects", description)
}
