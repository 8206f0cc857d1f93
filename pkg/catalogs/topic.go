// Package catalogs defines the topic record schema shared by the seed
// catalog, the remote store documents, and the presentation view.
package catalogs

import (
	"strings"
)

// Topic represents a single study topic in the catalog.
type Topic struct {
	// ID is assigned by the store on creation. It is empty for seed
	// records that have not been committed yet.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// System and Title together form the topic's natural identity.
	System string `json:"system" yaml:"system"`
	Title  string `json:"topic" yaml:"topic"`

	// YieldScore weights how often the topic is tested, 1-5.
	YieldScore int `json:"yield_score" yaml:"yield_score"`

	// Keywords feed the free-text search. Order carries no meaning.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Summary and ExamTip are free-form text. They may carry the
	// pipe-table and **bold** conventions; this package treats them
	// as opaque strings.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
	ExamTip string `json:"exam_tip,omitempty" yaml:"exam_tip,omitempty"`

	// Image is either an external URL or an embedded data payload.
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
}

// Key is the normalized deduplication identity of a topic:
// the case-folded, trimmed concatenation of system and title.
type Key string

// NewKey builds the normalized key for a system/title pair.
func NewKey(system, title string) Key {
	return Key(strings.ToLower(strings.TrimSpace(system) + "-" + strings.TrimSpace(title)))
}

// Key returns the topic's normalized deduplication key.
func (t *Topic) Key() Key {
	return NewKey(t.System, t.Title)
}

// Identified reports whether the topic carries both identity fields.
// Records missing either one are excluded from key computation and
// left untouched by reconciliation.
func (t *Topic) Identified() bool {
	return strings.TrimSpace(t.System) != "" && strings.TrimSpace(t.Title) != ""
}

// SearchText returns the case-folded haystack the free-text filter
// matches against: title, summary, exam tip and keywords joined by
// spaces.
func (t *Topic) SearchText() string {
	parts := make([]string, 0, 3+len(t.Keywords))
	parts = append(parts, t.Title, t.Summary, t.ExamTip)
	parts = append(parts, t.Keywords...)
	return strings.ToLower(strings.Join(parts, " "))
}
