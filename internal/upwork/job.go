package upwork

// RawJob is one job record as returned by the proxy. Depending on the
// upstream feed the record is either structured (API path: budget, skills
// and client sub-objects populated) or RSS-like, with everything embedded
// in the description text. The normalizer handles both shapes.
type RawJob struct {
	ID          string `json:"id,omitempty"`
	GUID        string `json:"guid,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	PubDate     string `json:"pubDate,omitempty"`
	Country     string `json:"country,omitempty"`

	Budget struct {
		FixedBudget float64 `json:"fixedBudget,omitempty"`
		HourlyRate  struct {
			Min float64 `json:"min,omitempty"`
			Max float64 `json:"max,omitempty"`
		} `json:"hourlyRate,omitempty"`
	} `json:"budget,omitempty"`

	Skills []string `json:"skills,omitempty"`

	Client struct {
		TotalSpent      float64 `json:"totalSpent,omitempty"`
		HireRate        float64 `json:"hireRate,omitempty"`
		FeedbackRate    float64 `json:"feedbackRate,omitempty"`
		PaymentVerified bool    `json:"paymentVerified,omitempty"`
	} `json:"client,omitempty"`
}

// SourceID returns the stable upstream identifier if the record has one.
func (j *RawJob) SourceID() string {
	if j.ID != "" {
		return j.ID
	}
	return j.GUID
}

// Posted returns the creation timestamp field, whichever shape carried it.
func (j *RawJob) Posted() string {
	if j.CreatedAt != "" {
		return j.CreatedAt
	}
	return j.PubDate
}
