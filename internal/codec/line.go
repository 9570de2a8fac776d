package codec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/readyq/pkg/task"
)

// lineCodec stores one self-contained JSON record per line. A partially
// corrupted file still yields every intact record: malformed lines are
// skipped with a warning, never fatal.
type lineCodec struct{}

func (lineCodec) Name() string { return "line" }

// scanBufferSize bounds a single record; descriptions and session logs
// are free text and can far exceed bufio's default line limit.
const scanBufferSize = 4 * 1024 * 1024

func (lineCodec) Encode(tasks []task.Task) ([]byte, error) {
	var buf bytes.Buffer
	for _, t := range tasks {
		t.EnsureDefaults()
		rec, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("encoding task %s: %w", t.ID, err)
		}
		buf.Write(rec)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (lineCodec) Decode(data []byte) ([]task.Task, error) {
	tasks := []task.Task{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), scanBufferSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var t task.Task
		if err := json.Unmarshal(line, &t); err != nil {
			slog.Warn("skipping malformed line", "line", lineNo, "err", err)
			continue
		}
		t.EnsureDefaults()
		tasks = append(tasks, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning records: %w", err)
	}
	return tasks, nil
}

func (lineCodec) AppendRecord(t task.Task, first bool) ([]byte, error) {
	t.EnsureDefaults()
	rec, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encoding task %s: %w", t.ID, err)
	}
	return append(rec, '\n'), nil
}
