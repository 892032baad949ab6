package roadmap

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

type Task struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Priority        string   `json:"priority"`
	Category        string   `json:"category"`
	EstimatedImpact string   `json:"estimated_impact"`
	ActionItems     []string `json:"action_items"`
}

type Roadmap struct {
	Summary     string    `json:"summary"`
	Tasks       []Task    `json:"tasks"`
	Insights    []string  `json:"insights"`
	GeneratedAt time.Time `json:"generated_at"`
}

const (
	fallbackSummaryLimit = 500
	fallbackInsightLimit = 200
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// parseResponse decodes the model's reply into a Roadmap. If the reply
// contains a fenced code block, only its contents are considered. The
// second return value reports whether the degraded fallback was used;
// this function never fails.
func parseResponse(content string) (*Roadmap, bool) {
	candidate := strings.TrimSpace(content)
	if m := fencedBlockPattern.FindStringSubmatch(content); m != nil {
		candidate = m[1]
	}

	var r Roadmap
	if err := json.Unmarshal([]byte(candidate), &r); err == nil {
		return &r, false
	}

	return fallbackRoadmap(content), true
}

// fallbackRoadmap packages an unparseable model reply into a well-formed
// result so the caller still gets something reviewable.
func fallbackRoadmap(raw string) *Roadmap {
	return &Roadmap{
		Summary: truncate(raw, fallbackSummaryLimit),
		Tasks: []Task{{
			Title:           "Review AI Recommendations",
			Description:     raw,
			Priority:        "medium",
			Category:        "general",
			EstimatedImpact: "Moderate",
			ActionItems:     []string{"Review the AI-generated insights above"},
		}},
		Insights: []string{truncate(raw, fallbackInsightLimit)},
	}
}

// truncate limits s to max characters, not bytes, so multibyte content
// is never cut mid-rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
