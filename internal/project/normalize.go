package project

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/upwork"
)

const maxDescriptionLen = 800

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	budgetPattern     = regexp.MustCompile(`(?i)Budget:\s*\$?([\d,]+(?:\.\d{2})?)`)
	hourlyPattern     = regexp.MustCompile(`(?i)Hourly Range:\s*\$?([\d.]+)-\$?([\d.]+)`)
	skillsPattern     = regexp.MustCompile(`(?i)Skills:\s*([^.]+)`)
	countryPattern    = regexp.MustCompile(`(?i)Country:\s*([^.]+)`)
)

// Normalize converts one raw source record into a canonical Project,
// attributed to the given offering.
func Normalize(raw *upwork.RawJob, keyword string, off offering.Offering) *Project {
	description := cleanText(raw.Description)

	budget, budgetMin, budgetMax, isHourly := extractBudget(raw, description)
	skills := extractSkills(raw, description)
	country := extractCountry(raw, description)

	id := raw.SourceID()
	if id == "" {
		id = SyntheticID(raw.Link)
	}

	p := &Project{
		ID:             id,
		Kind:           KindReal,
		Title:          strings.TrimSpace(raw.Title),
		Description:    truncate(description, maxDescriptionLen),
		Link:           raw.Link,
		PostedDate:     parseDate(raw.Posted()),
		Category:       off.Name,
		Budget:         budget,
		BudgetMin:      budgetMin,
		BudgetMax:      budgetMax,
		IsHourly:       isHourly,
		EstimatedHours: estimateHours(budgetMax, isHourly, len(description), off),
		Skills:         skills,
		Country:        country,
		Client: Client{
			TotalSpent:      raw.Client.TotalSpent,
			HireRate:        raw.Client.HireRate,
			FeedbackRate:    raw.Client.FeedbackRate,
			PaymentVerified: raw.Client.PaymentVerified,
		},
		SearchKeyword: keyword,
	}

	p.MatchScore = Score(p.Title, description, off, budgetMax)

	return p
}

// Attribute picks the offering a raw record belongs to: the first one
// whose keywords occur in the title or description, falling back to the
// first offering in the registry.
func Attribute(offerings []offering.Offering, title, description string) (offering.Offering, bool) {
	if len(offerings) == 0 {
		return offering.Offering{}, false
	}
	for _, off := range offerings {
		if off.MatchesText(title, description) {
			return off, true
		}
	}
	return offerings[0], true
}

func cleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func extractBudget(raw *upwork.RawJob, description string) (display string, min, max float64, hourly bool) {
	// Structured budget from the API path wins over text extraction.
	if raw.Budget.HourlyRate.Max > 0 {
		min, max = raw.Budget.HourlyRate.Min, raw.Budget.HourlyRate.Max
		return formatHourly(min, max), min, max, true
	}
	if raw.Budget.FixedBudget > 0 {
		max = raw.Budget.FixedBudget
		return fmt.Sprintf("$%s", formatAmount(max)), 0, max, false
	}

	if m := hourlyPattern.FindStringSubmatch(description); m != nil {
		min, _ = strconv.ParseFloat(m[1], 64)
		max, _ = strconv.ParseFloat(m[2], 64)
		return formatHourly(min, max), min, max, true
	}
	if m := budgetPattern.FindStringSubmatch(description); m != nil {
		max, _ = strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		return fmt.Sprintf("$%s", m[1]), 0, max, false
	}

	return "Not specified", 0, 0, false
}

func extractSkills(raw *upwork.RawJob, description string) []string {
	if len(raw.Skills) > 0 {
		skills := make([]string, 0, len(raw.Skills))
		for _, s := range raw.Skills {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
		return skills
	}

	m := skillsPattern.FindStringSubmatch(description)
	if m == nil {
		return nil
	}
	var skills []string
	for _, s := range strings.Split(m[1], ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func extractCountry(raw *upwork.RawJob, description string) string {
	if raw.Country != "" {
		return raw.Country
	}
	if m := countryPattern.FindStringSubmatch(description); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// estimateHours derives the effort estimate. Fixed-budget jobs divide the
// budget by the offering's reference rate. Hourly jobs are bucketed by
// description length into the 20-80 hour range, keeping the estimate
// deterministic for identical inputs.
func estimateHours(budgetMax float64, isHourly bool, descriptionLen int, off offering.Offering) int {
	switch {
	case isHourly:
		return hourlyBucket(descriptionLen)
	case budgetMax > 0:
		hours := int(math.Floor(budgetMax / off.ReferenceRate()))
		if hours < 10 {
			hours = 10
		}
		return hours
	default:
		return 20
	}
}

func hourlyBucket(descriptionLen int) int {
	switch {
	case descriptionLen < 500:
		return 20
	case descriptionLen < 1000:
		return 35
	case descriptionLen < 1500:
		return 50
	case descriptionLen < 2500:
		return 65
	default:
		return 80
	}
}

func formatHourly(min, max float64) string {
	return fmt.Sprintf("$%s-$%s/hr", formatAmount(min), formatAmount(max))
}

func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339, time.RFC1123Z, time.RFC1123, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}
