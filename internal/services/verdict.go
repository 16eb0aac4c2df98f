package services

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

const (
	neutralConfidenceScore = 50
	fallbackAnalysis       = "Analysis could not be completed. Manual review recommended."
	maxAnalysisLength      = 500
)

// Models wrap the requested JSON object in prose or markdown fences; grab the
// widest brace-delimited substring and parse that.
var jsonObjectRegex = regexp.MustCompile(`(?s)\{.*\}`)

// Verdict is the credibility assessment distilled from a raw model response.
type Verdict struct {
	ConfidenceScore int
	Analysis        string
}

type rawVerdict struct {
	ConfidenceScore json.RawMessage `json:"confidence_score"`
	Analysis        string          `json:"analysis"`
}

// parseVerdict extracts a confidence score and analysis text from a raw model
// response. Parsing never fails: an unusable response resolves to the neutral
// score, and if the raw text is non-empty it is surfaced (truncated) as the
// analysis so reviewers still see what the model said. A parsable object with
// a mistyped field keeps whatever fields did decode rather than discarding
// the whole verdict.
func parseVerdict(raw string) Verdict {
	verdict := Verdict{
		ConfidenceScore: neutralConfidenceScore,
		Analysis:        fallbackAnalysis,
	}

	match := jsonObjectRegex.FindString(raw)
	if match == "" {
		if raw != "" {
			verdict.Analysis = truncate(raw, maxAnalysisLength)
		}
		return verdict
	}

	var parsed rawVerdict
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			if raw != "" {
				verdict.Analysis = truncate(raw, maxAnalysisLength)
			}
			return verdict
		}
		// A mistyped field decays to its zero value; the rest decoded fine.
	}

	if score, ok := scoreFromJSON(parsed.ConfidenceScore); ok {
		verdict.ConfidenceScore = clampScore(score)
	}
	if parsed.Analysis != "" {
		verdict.Analysis = truncate(parsed.Analysis, maxAnalysisLength)
	}

	return verdict
}

// scoreFromJSON reads a confidence score that may arrive as a JSON number or
// as a quoted numeric string. Anything else reports no score.
func scoreFromJSON(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		num = json.Number(strings.TrimSpace(s))
	}

	if v, err := num.Int64(); err == nil {
		return int(v), true
	}
	if v, err := num.Float64(); err == nil {
		return int(v), true
	}
	return 0, false
}

// clampScore bounds a confidence score to [0, 100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
