package ai

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Verdict is the structured result extracted from a model completion.
type Verdict struct {
	Score      float64
	Assessment string
}

// ParseVerdict extracts a score/assessment pair from a raw model
// completion. Models often wrap the JSON in markdown fences despite being
// instructed not to, so fences are stripped before decoding. Score values
// are coerced leniently since models sometimes emit numbers as strings.
func ParseVerdict(raw string) (Verdict, bool) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return Verdict{}, false
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return Verdict{}, false
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		score = 0
	}

	return Verdict{
		Score:      score,
		Assessment: coerceString(data["assessment"]),
	}, true
}

// IsEmptyResponse reports whether a completion contains nothing usable
// after fence stripping.
func IsEmptyResponse(raw string) bool {
	return extractJSON(raw) == ""
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
