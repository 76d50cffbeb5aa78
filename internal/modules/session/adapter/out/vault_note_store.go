package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"oryx/internal/modules/session/domain"
	sessionout "oryx/internal/modules/session/port/out"
	"oryx/internal/platform/markdown"
	"oryx/internal/platform/slug"
)

const indexName = "index.md"

var statsBlock = markdown.Block{
	Start: "<!-- oryx:stats:start -->",
	End:   "<!-- oryx:stats:end -->",
}

type noteMeta struct {
	Title           string   `yaml:"title"`
	Labels          []string `yaml:"labels"`
	Date            string   `yaml:"date"`
	Time            string   `yaml:"time"`
	DurationMinutes int      `yaml:"duration_minutes"`
}

type indexMeta struct {
	Title         string `yaml:"title"`
	TotalSessions int    `yaml:"total_sessions"`
	TodaySessions int    `yaml:"today_sessions"`
}

// VaultNoteStore exports sessions as Obsidian-style markdown notes laid out
// as sessions/YYYY/MM/DD/<seq>-<HHMM>-<title>.md under an export root.
type VaultNoteStore struct{}

func NewVaultNoteStore() sessionout.NoteStore {
	return VaultNoteStore{}
}

func (VaultNoteStore) SaveNote(_ context.Context, root string, session domain.Session, seq int) (string, error) {
	dir := filepath.Join(root, "sessions", "undated")
	if day, err := time.Parse(domain.DateLayout, session.Date); err == nil {
		dir = filepath.Join(root, "sessions", day.Format("2006"), day.Format("01"), day.Format("02"))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create note dir: %w", err)
	}
	clock := strings.ReplaceAll(session.Time, ":", "")
	name := fmt.Sprintf("%02d-%s-%s.md", seq, clock, slug.Make(session.Title))
	path := filepath.Join(dir, name)

	labels := make([]string, 0, len(session.Labels))
	links := make([]string, 0, len(session.Labels))
	for _, label := range session.Labels {
		if label == "" {
			continue
		}
		labels = append(labels, label)
		links = append(links, "[["+label+"]]")
	}
	meta := noteMeta{
		Title:           session.Title,
		Labels:          labels,
		Date:            session.Date,
		Time:            session.Time,
		DurationMinutes: domain.SessionMinutes,
	}
	body := fmt.Sprintf("# %s\n\n- Labels: %s\n- Completed: %s %s\n- Duration: %d minutes\n",
		session.Title, strings.Join(links, ", "), session.Date, session.Time, domain.SessionMinutes)
	rendered, err := markdown.Render(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	return path, nil
}

// SaveIndex rewrites the stats block of index.md, keeping anything the user
// wrote around it.
func (VaultNoteStore) SaveIndex(_ context.Context, root string, stats domain.Stats, labels []domain.LabelCount) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(root, indexName)

	meta := indexMeta{Title: "Focus sessions"}
	body := "# Focus sessions\n"
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		parsed, _, splitErr := markdown.Split(string(existing), &meta)
		if splitErr != nil {
			return "", fmt.Errorf("parse %s: %w", path, splitErr)
		}
		body = parsed
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("read index note: %w", err)
	}
	meta.TotalSessions = stats.TotalCount
	meta.TodaySessions = stats.TodayCount

	rendered, err := markdown.Render(meta, statsBlock.Replace(body, renderStatsTable(stats, labels)))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write index note: %w", err)
	}
	return path, nil
}

func renderStatsTable(stats domain.Stats, labels []domain.LabelCount) string {
	var sb strings.Builder
	sb.WriteString("| Period | Sessions | Time |\n|---|---|---|\n")
	fmt.Fprintf(&sb, "| Today | %d | %dh:%02dm |\n", stats.TodayCount, stats.TodayHours, stats.TodayMinutes)
	fmt.Fprintf(&sb, "| All time | %d | %dh:%02dm |\n", stats.TotalCount, stats.TotalHours, stats.TotalMinutes)
	if len(labels) == 0 {
		return sb.String()
	}
	sb.WriteString("\n| Label | Sessions | Today | Time |\n|---|---|---|---|\n")
	for _, l := range labels {
		hours, minutes := domain.Duration(l.Count)
		fmt.Fprintf(&sb, "| [[%s]] | %d | %d | %dh:%02dm |\n", l.Label, l.Count, l.TodayCount, hours, minutes)
	}
	return sb.String()
}
