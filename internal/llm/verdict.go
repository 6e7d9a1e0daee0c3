package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// Verdict scale levels
const (
	LevelTrue        = "true"
	LevelLikelyTrue  = "likely_true"
	LevelUnverified  = "unverified"
	LevelLikelyFalse = "likely_false"
	LevelFalse       = "false"
)

type verdictPayload struct {
	Verdict string `json:"verdict"`
	Summary string `json:"summary"`
}

// ParseVerdictResponse extracts {verdict, summary} from a model answer,
// tolerating Markdown code fences around the JSON
func ParseVerdictResponse(text string) (verdict, summary string, err error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var p verdictPayload
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return "", "", fmt.Errorf("parse verdict: %w", err)
	}
	if p.Verdict == "" {
		return "", "", fmt.Errorf("parse verdict: empty verdict")
	}
	return p.Verdict, p.Summary, nil
}

// MapVerdict places a free-form verdict on the five-level colour/score scale.
// Matching is by substring, so "Mostly True" maps to true.
func MapVerdict(verdict string) model.Scale {
	v := strings.ToLower(verdict)
	switch {
	case strings.Contains(v, "true") && !strings.Contains(v, "likely"):
		return model.Scale{Level: LevelTrue, Color: "#22c55e", Score: 100}
	case strings.Contains(v, "likely true"):
		return model.Scale{Level: LevelLikelyTrue, Color: "#eab308", Score: 75}
	case strings.Contains(v, "likely false"):
		return model.Scale{Level: LevelLikelyFalse, Color: "#f97316", Score: 25}
	case strings.Contains(v, "false"):
		return model.Scale{Level: LevelFalse, Color: "#ef4444", Score: 0}
	default:
		return model.Scale{Level: LevelUnverified, Color: "#9ca3af", Score: 50}
	}
}
