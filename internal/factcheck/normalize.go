package factcheck

import (
	"github.com/ppiankov/credence/internal/model"
)

// Normalize maps the API's loosely shaped answer onto a FactCheck.
// It probes results[0], then result, then the document itself, and returns nil
// when no rating, url or title can be found.
func Normalize(doc any) *model.FactCheck {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil
	}

	item := root
	if results, ok := root["results"].([]any); ok {
		if len(results) == 0 {
			return nil
		}
		item, _ = results[0].(map[string]any)
	} else if r, ok := root["result"].(map[string]any); ok {
		item = r
	}
	if item == nil {
		return nil
	}

	fc := &model.FactCheck{
		Rating:   firstString(item, "rating", "verdict", "claimRating"),
		Evidence: firstString(item, "evidence", "summary", "excerpt"),
		URL:      firstString(item, "url", "link"),
		Title:    firstString(item, "title", "headline"),
	}
	if fc.Rating == "" && fc.URL == "" && fc.Title == "" {
		return nil
	}
	return fc
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
