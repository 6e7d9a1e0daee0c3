package model

// Mode selects how much of the page the text represents
type Mode string

const (
	ModePage      Mode = "page"      // Whole page or post
	ModeSelection Mode = "selection" // User selection inside a page
)

// AnalysisRequest is the immutable input to the analyzer
type AnalysisRequest struct {
	Text  string      `json:"text"`
	URL   string      `json:"url,omitempty"`
	Title string      `json:"title,omitempty"`
	Mode  Mode        `json:"mode,omitempty"`
	Meta  RequestMeta `json:"meta,omitempty"`
}

// RequestMeta carries optional context gathered around the text
type RequestMeta struct {
	Surrounding *Surrounding `json:"surrounding,omitempty"`
	Description string       `json:"description,omitempty"`
	Headline    string       `json:"headline,omitempty"`
	LinkCounts  LinkCounts   `json:"linkCounts,omitempty"`
	Published   string       `json:"published,omitempty"` // Publish date as found on the page
}

// Surrounding is the text immediately before and after a selection
type Surrounding struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// LinkCounts are outbound link counts near the text and in the whole article
type LinkCounts struct {
	Block   int `json:"block,omitempty"`
	Before  int `json:"before,omitempty"`
	After   int `json:"after,omitempty"`
	Article int `json:"article,omitempty"`
}

// IsSelection reports whether the request is a selection
func (r AnalysisRequest) IsSelection() bool {
	return r.Mode == ModeSelection
}

// ContextText joins the text with any surrounding context, description and headline
func (r AnalysisRequest) ContextText() string {
	parts := []string{r.Text}
	if s := r.Meta.Surrounding; s != nil {
		if s.Before != "" {
			parts = append(parts, s.Before)
		}
		if s.After != "" {
			parts = append(parts, s.After)
		}
	}
	if r.Meta.Description != "" {
		parts = append(parts, r.Meta.Description)
	}
	if r.Meta.Headline != "" {
		parts = append(parts, r.Meta.Headline)
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out += " \n " + p
	}
	return out
}
