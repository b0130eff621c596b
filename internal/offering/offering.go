package offering

import "strings"

const fallbackRate = 100

// Offering is a user-defined service category used as the matching
// reference set for incoming job postings.
type Offering struct {
	Name     string   `json:"name" mapstructure:"name"`
	Keywords []string `json:"keywords" mapstructure:"keywords"`
	RateMin  float64  `json:"rateMin" mapstructure:"rate-min"`
	RateMax  float64  `json:"rateMax" mapstructure:"rate-max"`
	Skills   []string `json:"skills" mapstructure:"skills"`

	// DefaultRate is the single hourly rate of the older offering schema.
	// Kept so previously persisted registries keep loading.
	DefaultRate float64 `json:"defaultRate,omitempty" mapstructure:"default-rate"`
}

// ReferenceRate returns the representative hourly rate for estimates:
// the legacy DefaultRate when present, otherwise the midpoint of the
// rate range, otherwise a built-in fallback.
func (o Offering) ReferenceRate() float64 {
	if o.DefaultRate > 0 {
		return o.DefaultRate
	}
	if o.RateMax > 0 {
		return (o.RateMin + o.RateMax) / 2
	}
	return fallbackRate
}

// MatchesText reports whether any of the offering keywords occurs in the
// given title or description. The check is a case-insensitive substring
// test, same as the ingestion-time attribution.
func (o Offering) MatchesText(title, description string) bool {
	lowerTitle := strings.ToLower(title)
	lowerDesc := strings.ToLower(description)
	for _, keyword := range o.Keywords {
		k := strings.ToLower(strings.TrimSpace(keyword))
		if k == "" {
			continue
		}
		if strings.Contains(lowerTitle, k) || strings.Contains(lowerDesc, k) {
			return true
		}
	}
	return false
}

// Defaults returns the seed registry used when nothing is persisted yet.
func Defaults() []Offering {
	return []Offering{
		{
			Name:     "AI Digital Marketing",
			Keywords: []string{"AI marketing", "digital marketing", "marketing automation", "AI campaign", "social media AI"},
			RateMin:  70,
			RateMax:  100,
			Skills:   []string{"SEO", "Google Ads", "Content Marketing", "Analytics"},
		},
		{
			Name:     "Website Design & Development",
			Keywords: []string{"website", "web design", "web development", "react", "nextjs", "frontend", "ecommerce"},
			RateMin:  80,
			RateMax:  110,
			Skills:   []string{"React", "Next.js", "TypeScript", "Node.js", "CSS", "Shopify"},
		},
		{
			Name:     "AI Agents & Automation",
			Keywords: []string{"AI agent", "automation", "chatbot", "workflow automation", "RPA", "process automation"},
			RateMin:  95,
			RateMax:  125,
			Skills:   []string{"Python", "LangChain", "OpenAI API", "Zapier", "Make"},
		},
		{
			Name:     "Cybersecurity Support",
			Keywords: []string{"cybersecurity", "security audit", "penetration testing", "infosec", "vulnerability"},
			RateMin:  100,
			RateMax:  140,
			Skills:   []string{"Penetration Testing", "OWASP", "SIEM", "Compliance"},
		},
	}
}
