package codec

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mesh-intelligence/readyq/pkg/task"
)

// docCodec stores tasks as titled markdown sections separated by a rule
// line. Free-text fields (description, session logs) are wrapped in
// explicit start/end markers so that headings and rule lines inside the
// text are never mistaken for document structure. Sections written before
// the markers existed are still readable: the decoder falls back to an
// "everything until the next recognized heading" reading.
type docCodec struct{}

func (docCodec) Name() string { return "document" }

const (
	taskHeadingPrefix = "# Task: "
	sectionSeparator  = "\n---\n\n"

	fieldID        = "**ID**:"
	fieldCreated   = "**Created**:"
	fieldUpdated   = "**Updated**:"
	fieldBlocks    = "**Blocks**:"
	fieldBlockedBy = "**Blocked By**:"

	headingStatus   = "## Status"
	headingDesc     = "## Description"
	headingSessions = "## Session Logs"

	openDesc  = "<description>"
	closeDesc = "</description>"
	openLog   = "<log>"
	closeLog  = "</log>"
)

// statusLabels maps statuses to their checklist labels, in render order.
var statusLabels = map[task.Status]string{
	task.StatusOpen:       "Open",
	task.StatusInProgress: "In Progress",
	task.StatusBlocked:    "Blocked",
	task.StatusDone:       "Done",
}

// statusByLabel is the reverse of statusLabels.
var statusByLabel = map[string]task.Status{
	"Open":        task.StatusOpen,
	"In Progress": task.StatusInProgress,
	"Blocked":     task.StatusBlocked,
	"Done":        task.StatusDone,
}

func (docCodec) Encode(tasks []task.Task) ([]byte, error) {
	var b strings.Builder
	for i, t := range tasks {
		if i > 0 {
			b.WriteString(sectionSeparator)
		}
		t.EnsureDefaults()
		renderSection(&b, t)
	}
	return []byte(b.String()), nil
}

func (docCodec) AppendRecord(t task.Task, first bool) ([]byte, error) {
	var b strings.Builder
	if !first {
		b.WriteString(sectionSeparator)
	}
	t.EnsureDefaults()
	renderSection(&b, t)
	return []byte(b.String()), nil
}

func renderSection(b *strings.Builder, t task.Task) {
	fmt.Fprintf(b, "%s%s\n\n", taskHeadingPrefix, t.Title)
	fmt.Fprintf(b, "%s %s\n", fieldID, t.ID)
	fmt.Fprintf(b, "%s %s\n", fieldCreated, t.CreatedAt.Format(time.RFC3339Nano))
	fmt.Fprintf(b, "%s %s\n", fieldUpdated, t.UpdatedAt.Format(time.RFC3339Nano))
	fmt.Fprintf(b, "%s %s\n", fieldBlocks, strings.Join(t.Blocks, ", "))
	fmt.Fprintf(b, "%s %s\n", fieldBlockedBy, strings.Join(t.BlockedBy, ", "))

	fmt.Fprintf(b, "\n%s\n\n", headingStatus)
	for _, s := range task.Statuses() {
		mark := " "
		if s == t.Status {
			mark = "x"
		}
		fmt.Fprintf(b, "- [%s] %s\n", mark, statusLabels[s])
	}

	fmt.Fprintf(b, "\n%s\n\n", headingDesc)
	b.WriteString(openDesc + "\n")
	b.WriteString(t.Description)
	b.WriteString("\n" + closeDesc + "\n")

	if len(t.Sessions) > 0 {
		fmt.Fprintf(b, "\n%s\n", headingSessions)
		for _, s := range t.Sessions {
			fmt.Fprintf(b, "\n### %s\n\n", s.Timestamp.Format(time.RFC3339Nano))
			b.WriteString(openLog + "\n")
			b.WriteString(s.Log)
			b.WriteString("\n" + closeLog + "\n")
		}
	}
}

func (docCodec) Decode(data []byte) ([]task.Task, error) {
	text := string(data)
	tasks := []task.Task{}
	if strings.TrimSpace(text) == "" {
		return tasks, nil
	}
	for i, sec := range splitSections(text) {
		if strings.TrimSpace(sec) == "" {
			continue
		}
		t, err := parseSection(sec)
		if err != nil {
			slog.Warn("skipping malformed task section", "section", i+1, "err", err)
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// splitSections breaks the document at rule lines that occupy their own
// line outside any free-text marker region. A rule inside
// <description> or <log> is content, not a separator.
func splitSections(text string) []string {
	lines := strings.Split(text, "\n")
	var sections []string
	var cur []string
	inMarker := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case !inMarker && (trimmed == openDesc || trimmed == openLog):
			inMarker = true
			cur = append(cur, line)
		case inMarker && (trimmed == closeDesc || trimmed == closeLog):
			// A mismatched closing marker still ends the region; the
			// section parser recovers via the fallback reader.
			inMarker = false
			cur = append(cur, line)
		case !inMarker && trimmed == "---":
			sections = append(sections, strings.Join(cur, "\n"))
			cur = cur[:0]
		default:
			cur = append(cur, line)
		}
	}
	sections = append(sections, strings.Join(cur, "\n"))
	return sections
}

func parseSection(sec string) (task.Task, error) {
	var t task.Task
	t.EnsureDefaults()
	lines := strings.Split(sec, "\n")

	i := skipBlank(lines, 0)
	if i >= len(lines) || !strings.HasPrefix(lines[i], taskHeadingPrefix) {
		return t, errors.New("missing task heading")
	}
	t.Title = strings.TrimPrefix(lines[i], taskHeadingPrefix)
	if strings.TrimSpace(t.Title) == "" {
		return t, errors.New("empty title")
	}
	i++

	i = parseMetadata(lines, i, &t)
	if t.ID == "" {
		return t, errors.New("missing id")
	}

	if i < len(lines) && strings.TrimSpace(lines[i]) == headingDesc {
		t.Description, i = parseFreeText(lines, i+1, openDesc, closeDesc, func(line string) bool {
			return strings.TrimSpace(line) == headingSessions
		})
	}

	i = skipBlank(lines, i)
	if i < len(lines) && strings.TrimSpace(lines[i]) == headingSessions {
		t.Sessions = parseSessions(lines, i+1)
	}

	return t, nil
}

// parseMetadata consumes the labeled field lines and the status checklist,
// stopping at the description or session-log heading.
func parseMetadata(lines []string, i int, t *task.Task) int {
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		switch {
		case trimmed == headingDesc || trimmed == headingSessions:
			return i
		case strings.HasPrefix(trimmed, fieldID):
			t.ID = strings.TrimSpace(strings.TrimPrefix(trimmed, fieldID))
		case strings.HasPrefix(trimmed, fieldCreated):
			t.CreatedAt = parseTimestamp(strings.TrimPrefix(trimmed, fieldCreated))
		case strings.HasPrefix(trimmed, fieldUpdated):
			t.UpdatedAt = parseTimestamp(strings.TrimPrefix(trimmed, fieldUpdated))
		case strings.HasPrefix(trimmed, fieldBlocks):
			t.Blocks = parseIDList(strings.TrimPrefix(trimmed, fieldBlocks))
		case strings.HasPrefix(trimmed, fieldBlockedBy):
			t.BlockedBy = parseIDList(strings.TrimPrefix(trimmed, fieldBlockedBy))
		case strings.HasPrefix(trimmed, "- ["):
			if status, checked := parseCheckItem(trimmed); checked {
				t.Status = status
			}
		}
	}
	return i
}

// parseFreeText reads one wrapped free-text region starting at i. It
// prefers the explicit open/close markers; when the opening marker is
// absent (legacy sections) or the closing marker never arrives, it falls
// back to reading everything up to the stop line, trimmed.
func parseFreeText(lines []string, i int, open, closing string, stop func(string) bool) (string, int) {
	i = skipBlank(lines, i)
	if i >= len(lines) || stop(lines[i]) {
		return "", i
	}

	if strings.TrimSpace(lines[i]) == open {
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == closing {
				return strings.Join(lines[i+1:j], "\n"), j + 1
			}
		}
		// Unterminated marker: recover with the fallback reading.
		i++
	}

	j := i
	for j < len(lines) && !stop(lines[j]) {
		j++
	}
	return strings.TrimSpace(strings.Join(lines[i:j], "\n")), j
}

func parseSessions(lines []string, i int) []task.Session {
	sessions := []task.Session{}
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "### ") {
			i++
			continue
		}
		ts := parseTimestamp(strings.TrimPrefix(trimmed, "### "))
		var log string
		log, i = parseFreeText(lines, i+1, openLog, closeLog, func(line string) bool {
			return strings.HasPrefix(strings.TrimSpace(line), "### ")
		})
		if ts.IsZero() {
			slog.Warn("skipping session log with unparseable timestamp", "heading", trimmed)
			continue
		}
		sessions = append(sessions, task.Session{Timestamp: ts, Log: log})
	}
	return sessions
}

func parseCheckItem(line string) (task.Status, bool) {
	rest, ok := strings.CutPrefix(line, "- [")
	if !ok || len(rest) < 2 || rest[1] != ']' {
		return "", false
	}
	checked := rest[0] == 'x' || rest[0] == 'X'
	label := strings.TrimSpace(rest[2:])
	status, known := statusByLabel[label]
	return status, checked && known
}

func parseIDList(value string) []string {
	ids := []string{}
	for _, part := range strings.Split(value, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}
	}
	return ts
}

func skipBlank(lines []string, i int) int {
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return i
}
