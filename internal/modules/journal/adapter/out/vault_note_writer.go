package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lockin/internal/modules/journal/domain"
	journalout "lockin/internal/modules/journal/port/out"
	"lockin/internal/platform/markdown"
	"lockin/internal/platform/slug"
)

// VaultNoteWriter renders log entries as markdown notes. Re-exporting the
// same session rewrites the frontmatter and the generated block and keeps
// whatever the user wrote around it.
type VaultNoteWriter struct {
	dir string
}

func NewVaultNoteWriter(dir string) journalout.NoteWriter {
	return &VaultNoteWriter{dir: dir}
}

func (w *VaultNoteWriter) WriteNote(_ context.Context, entry domain.Entry) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create notes directory: %w", err)
	}
	path := filepath.Join(w.dir, noteName(entry))

	body := ""
	if existing, err := os.ReadFile(path); err == nil {
		if note, parseErr := markdown.Parse(string(existing)); parseErr == nil {
			body = note.Body
		}
	}
	if strings.TrimSpace(body) == "" {
		body = "## Notes\n"
	}
	block := markdown.Block{Start: domain.NoteBlockStart, End: domain.NoteBlockEnd}
	note := markdown.Note{Meta: toFrontmatter(entry), Body: block.Replace(body, renderSummary(entry))}

	rendered, err := note.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	return path, nil
}

func noteName(entry domain.Entry) string {
	return entry.StartedAt.UTC().Format("2006-01-02") + "-" + slug.Make(entry.Target+" "+entry.SessionID) + ".md"
}

func toFrontmatter(entry domain.Entry) map[string]any {
	meta := map[string]any{
		"session_id":     entry.SessionID,
		"target":         entry.Target,
		"status":         entry.Status(),
		"started_at":     entry.StartedAt.UTC().Format(time.RFC3339),
		"ended_at":       entry.EndedAt.UTC().Format(time.RFC3339),
		"length_minutes": entry.LengthMinutes,
	}
	if entry.FlowKind != "" {
		meta["flow_kind"] = entry.FlowKind
	}
	if entry.IntakeID != "" {
		meta["intake_id"] = entry.IntakeID
	}
	if entry.CompletionPercent != nil {
		meta["completion_percent"] = *entry.CompletionPercent
	}
	if entry.XPAwarded != nil {
		meta["xp_awarded"] = *entry.XPAwarded
	}
	if entry.Insights != nil && entry.Insights.AlignmentScore != nil {
		meta["alignment_score"] = *entry.Insights.AlignmentScore
	}
	return meta
}

func renderSummary(entry domain.Entry) string {
	lines := []string{
		fmt.Sprintf("- Target: %s", orDash(entry.Target)),
		fmt.Sprintf("- Focused: %d of %d minutes (%s)", entry.ActiveMinutes(), entry.LengthMinutes, entry.Status()),
	}
	if r := entry.Reflection; r != nil {
		lines = append(lines, fmt.Sprintf("- Summary: %s", r.Summary))
		if r.DistractionsNoted != "" {
			lines = append(lines, fmt.Sprintf("- Distractions: %s", r.DistractionsNoted))
		}
		if r.NextStep != "" {
			lines = append(lines, fmt.Sprintf("- Next step: %s", r.NextStep))
		}
	}
	if entry.Insights != nil && entry.Insights.Notes != "" {
		lines = append(lines, "- "+entry.Insights.Notes)
	}
	return strings.Join(lines, "\n")
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
