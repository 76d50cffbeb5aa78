package domain

import "strings"

// requestedLabels splits a filter expression. Empty pieces are dropped since
// no persisted label can be empty.
func requestedLabels(raw string) []string {
	var labels []string
	for _, piece := range strings.Split(raw, ",") {
		if label := strings.TrimSpace(piece); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// Filter returns the sessions carrying at least one of the comma separated
// labels in raw, in history order and each at most once. A blank raw returns
// history as is.
func Filter(history []Session, raw string) []Session {
	labels := requestedLabels(raw)
	if len(labels) == 0 {
		return history
	}
	out := make([]Session, 0, len(history))
	for _, s := range history {
		for _, label := range labels {
			if s.HasLabel(label) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// FilterEachMatch walks the requested labels in order and collects every
// session carrying each one, so a session matching two requested labels is
// returned twice. Totals computed from this view are weighted by match count.
func FilterEachMatch(history []Session, raw string) []Session {
	labels := requestedLabels(raw)
	if len(labels) == 0 {
		return history
	}
	var out []Session
	for _, label := range labels {
		for _, s := range history {
			if s.HasLabel(label) {
				out = append(out, s)
			}
		}
	}
	if out == nil {
		out = []Session{}
	}
	return out
}
