package domain

import "time"

// RankedResult is the reported state of one endpoint after a selection round.
// ErrorMessage is nil when the probe succeeded.
type RankedResult struct {
	URL           string  `json:"url"`
	ElapsedTimeMS float64 `json:"elapsedTimeMs"`
	Failed        bool    `json:"failed"`
	ErrorMessage  *string `json:"errorMessage"`
	IsFastest     bool    `json:"isFastest"`
}

// Selection is one persisted selection round.
type Selection struct {
	Results   []RankedResult `json:"results"`
	Fastest   string         `json:"fastest,omitempty"`
	CheckedAt time.Time      `json:"checkedAt"`
}

// NewSelection wraps results, copying the fastest URL out for quick access.
func NewSelection(results []RankedResult, checkedAt time.Time) Selection {
	s := Selection{Results: results, CheckedAt: checkedAt}
	for _, r := range results {
		if r.IsFastest {
			s.Fastest = r.URL
			break
		}
	}
	return s
}
