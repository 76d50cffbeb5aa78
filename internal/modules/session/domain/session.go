package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "oryx/internal/platform/errors"
)

const (
	// SessionTicks is the progress capacity of one session: one tick per second.
	SessionTicks = 1500
	TickInterval = time.Second
	// SessionMinutes is what every logged session contributes to totals.
	SessionMinutes = 25

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Session is one completed focus interval as persisted in the history log.
// The JSON field names are the on-disk contract and must not change.
type Session struct {
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Date   string   `json:"date"`
	Time   string   `json:"time"`
}

// NewSession stamps a completed session with the local date and time of at.
func NewSession(title string, labels []string, at time.Time) (Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Session{}, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if labels == nil {
		labels = []string{}
	}
	return Session{
		Title:  title,
		Labels: labels,
		Date:   at.Format(DateLayout),
		Time:   at.Format(TimeLayout),
	}, nil
}

// ParseLabels turns the comma separated form typed by the user into a label
// list. Blank input means no labels. Order and duplicates are kept; a piece
// that is empty after trimming is rejected.
func ParseLabels(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	pieces := strings.Split(raw, ",")
	labels := make([]string, 0, len(pieces))
	for i, piece := range pieces {
		label := strings.TrimSpace(piece)
		if label == "" {
			return nil, fmt.Errorf("%w: empty label at position %d in %q", apperrors.ErrInvalidInput, i+1, raw)
		}
		labels = append(labels, label)
	}
	return labels, nil
}

// Validate checks the invariants of a record about to be persisted.
func (s Session) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return fmt.Errorf("%w: date %q is not %s", apperrors.ErrInvalidInput, s.Date, DateLayout)
	}
	if _, err := time.Parse(TimeLayout, s.Time); err != nil {
		return fmt.Errorf("%w: time %q is not %s", apperrors.ErrInvalidInput, s.Time, TimeLayout)
	}
	for _, label := range s.Labels {
		if label != strings.TrimSpace(label) || label == "" {
			return fmt.Errorf("%w: label %q must be trimmed and non-empty", apperrors.ErrInvalidInput, label)
		}
	}
	return nil
}

// HasLabel reports an exact, case-sensitive label match.
func (s Session) HasLabel(label string) bool {
	for _, own := range s.Labels {
		if own == label {
			return true
		}
	}
	return false
}

// Prepend returns history with s in front. history is not modified.
func Prepend(history []Session, s Session) []Session {
	out := make([]Session, 0, len(history)+1)
	out = append(out, s)
	return append(out, history...)
}
