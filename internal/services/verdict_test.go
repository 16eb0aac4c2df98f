package services

import (
	"strings"
	"testing"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name             string
		raw              string
		expectedScore    int
		expectedAnalysis string
	}{
		{
			name:             "clean json",
			raw:              `{"confidence_score": 85, "analysis": "Consistent with recent rainfall."}`,
			expectedScore:    85,
			expectedAnalysis: "Consistent with recent rainfall.",
		},
		{
			name:             "json in markdown fence",
			raw:              "```json\n{\"confidence_score\": 72, \"analysis\": \"Plausible report.\"}\n```",
			expectedScore:    72,
			expectedAnalysis: "Plausible report.",
		},
		{
			name:             "json wrapped in prose",
			raw:              "Here is my assessment:\n{\"confidence_score\": 60, \"analysis\": \"Limited detail.\"}\nLet me know if you need more.",
			expectedScore:    60,
			expectedAnalysis: "Limited detail.",
		},
		{
			name:             "float score truncated",
			raw:              `{"confidence_score": 72.6, "analysis": "ok"}`,
			expectedScore:    72,
			expectedAnalysis: "ok",
		},
		{
			name:             "score above range clamped",
			raw:              `{"confidence_score": 140, "analysis": "overconfident"}`,
			expectedScore:    100,
			expectedAnalysis: "overconfident",
		},
		{
			name:             "negative score clamped",
			raw:              `{"confidence_score": -5, "analysis": "nonsense"}`,
			expectedScore:    0,
			expectedAnalysis: "nonsense",
		},
		{
			name:             "non numeric score keeps neutral",
			raw:              `{"confidence_score": "high", "analysis": "vague"}`,
			expectedScore:    50,
			expectedAnalysis: "vague",
		},
		{
			name:             "quoted numeric score parsed",
			raw:              `{"confidence_score": "85", "analysis": "stringly typed"}`,
			expectedScore:    85,
			expectedAnalysis: "stringly typed",
		},
		{
			name:             "null score keeps neutral",
			raw:              `{"confidence_score": null, "analysis": "no score given"}`,
			expectedScore:    50,
			expectedAnalysis: "no score given",
		},
		{
			name:             "mistyped analysis keeps score",
			raw:              `{"confidence_score": 70, "analysis": 42}`,
			expectedScore:    70,
			expectedAnalysis: "Analysis could not be completed. Manual review recommended.",
		},
		{
			name:             "missing analysis keeps fallback",
			raw:              `{"confidence_score": 64}`,
			expectedScore:    64,
			expectedAnalysis: "Analysis could not be completed. Manual review recommended.",
		},
		{
			name:             "refusal without json surfaces raw text",
			raw:              "I cannot assess this report.",
			expectedScore:    50,
			expectedAnalysis: "I cannot assess this report.",
		},
		{
			name:             "unparsable braces surface raw text",
			raw:              "{this is not json}",
			expectedScore:    50,
			expectedAnalysis: "{this is not json}",
		},
		{
			name:             "empty response falls back",
			raw:              "",
			expectedScore:    50,
			expectedAnalysis: "Analysis could not be completed. Manual review recommended.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := parseVerdict(tt.raw)
			if verdict.ConfidenceScore != tt.expectedScore {
				t.Errorf("ConfidenceScore = %d, expected %d", verdict.ConfidenceScore, tt.expectedScore)
			}
			if verdict.Analysis != tt.expectedAnalysis {
				t.Errorf("Analysis = %q, expected %q", verdict.Analysis, tt.expectedAnalysis)
			}
		})
	}
}

func TestParseVerdict_TruncatesLongRawText(t *testing.T) {
	raw := strings.Repeat("x", 800)
	verdict := parseVerdict(raw)

	if verdict.ConfidenceScore != 50 {
		t.Errorf("ConfidenceScore = %d, expected 50", verdict.ConfidenceScore)
	}
	if len([]rune(verdict.Analysis)) != 500 {
		t.Errorf("Analysis length = %d runes, expected 500", len([]rune(verdict.Analysis)))
	}
}

func TestParseVerdict_TruncatesLongAnalysis(t *testing.T) {
	long := strings.Repeat("a", 600)
	verdict := parseVerdict(`{"confidence_score": 40, "analysis": "` + long + `"}`)

	if verdict.ConfidenceScore != 40 {
		t.Errorf("ConfidenceScore = %d, expected 40", verdict.ConfidenceScore)
	}
	if len([]rune(verdict.Analysis)) != 500 {
		t.Errorf("Analysis length = %d runes, expected 500", len([]rune(verdict.Analysis)))
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		score    int
		expected int
	}{
		{-10, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{150, 100},
	}

	for _, tt := range tests {
		if got := clampScore(tt.score); got != tt.expected {
			t.Errorf("clampScore(%d) = %d, expected %d", tt.score, got, tt.expected)
		}
	}
}
