// Package report turns session reporting output into terminal text.
package report

import (
	"fmt"
	"strings"

	sessiondto "oryx/internal/modules/session/dto"
	"oryx/internal/ui/theme"
)

// StatusLine renders today's figures in the tier colour followed by the
// all-time figures, e.g. "TODAY: 5 sessions 2h:5m <7 sessions 2h:55m (all time)>".
func StatusLine(s sessiondto.StatusOutput) string {
	today := fmt.Sprintf("TODAY: %d sessions %dh:%dm ", s.TodayCount, s.TodayHours, s.TodayMinutes)
	total := fmt.Sprintf("<%d sessions %dh:%dm (all time)>", s.TotalCount, s.TotalHours, s.TotalMinutes)
	return theme.ForTier(s.Tier).Render(today) + total
}

// Log renders the status line and one block per session, newest first.
func Log(out sessiondto.LogOutput) string {
	var sb strings.Builder
	sb.WriteString(StatusLine(out.Status))
	sb.WriteString("\n")
	for _, s := range out.Sessions {
		sb.WriteString("\n")
		sb.WriteString(theme.Focus.Render("Title: "+s.Title) + "\n")
		sb.WriteString("Labels: " + theme.Label.Render(strings.Join(s.Labels, ",")) + "\n")
		sb.WriteString(fmt.Sprintf("Date: %s %s\n", s.Date, s.Time))
	}
	return sb.String()
}

// Labels renders the per-label breakdown as aligned columns.
func Labels(labels []sessiondto.LabelOutput) string {
	if len(labels) == 0 {
		return theme.Muted.Render("no labelled sessions") + "\n"
	}
	width := len("LABEL")
	for _, l := range labels {
		width = max(width, len(l.Label))
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("%-*s  %8s  %6s  %s", width, "LABEL", "SESSIONS", "TODAY", "TIME")) + "\n")
	for _, l := range labels {
		sb.WriteString(fmt.Sprintf("%-*s  %8d  %6d  %dh:%dm\n", width, l.Label, l.Count, l.TodayCount, l.Hours, l.Minutes))
	}
	return sb.String()
}
