package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mesh-intelligence/readyq/internal/codec"
	"github.com/mesh-intelligence/readyq/internal/lockfile"
)

// Format is the detected on-disk representation of a store path.
type Format int

const (
	FormatAbsent Format = iota
	FormatLine
	FormatDocument
	FormatUnknown
)

func (f Format) String() string {
	switch f {
	case FormatAbsent:
		return "absent"
	case FormatLine:
		return "line"
	case FormatDocument:
		return "document"
	default:
		return "unknown"
	}
}

// BackupSuffix is appended to the line-format file after migration; the
// original data is never deleted.
const BackupSuffix = ".backup"

// ErrMigrationFailed reports that the source store could not be read even
// partially. The original files are left untouched.
var ErrMigrationFailed = errors.New("migration failed")

// Detect sniffs the content at path and reports which serialization it
// holds, or FormatAbsent when no file exists.
func Detect(path string) Format {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return FormatAbsent
	}
	if err != nil {
		return FormatUnknown
	}
	switch codec.Sniff(data) {
	case codec.FormatLine:
		return FormatLine
	case codec.FormatDocument:
		return FormatDocument
	default:
		return FormatUnknown
	}
}

// DocumentPath derives the document-format path for a line-format path.
func DocumentPath(linePath string) string {
	if strings.HasSuffix(linePath, ".jsonl") {
		return strings.TrimSuffix(linePath, ".jsonl") + ".md"
	}
	return linePath + ".md"
}

// Migrate upgrades a line-format store to the document format, once.
// The document file is written first, then the original is renamed aside
// with BackupSuffix. When the document file already exists the call is a
// no-op and never overwrites; when the line file is absent there is
// nothing to do. Malformed source lines are skipped with a warning, but a
// source with no readable records at all aborts with ErrMigrationFailed
// before anything is written.
func Migrate(linePath string, lockTimeout time.Duration) (bool, error) {
	docPath := DocumentPath(linePath)
	if _, err := os.Stat(docPath); err == nil {
		return false, nil
	}
	if _, err := os.Stat(linePath); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if Detect(linePath) == FormatDocument {
		// Already in the destination format under the original name.
		return false, nil
	}

	lock, err := lockfile.Acquire(linePath, lockTimeout)
	if err != nil {
		return false, err
	}
	defer lock.Release()

	data, err := os.ReadFile(linePath)
	if err != nil {
		return false, fmt.Errorf("%w: reading %s: %v", ErrMigrationFailed, linePath, err)
	}
	tasks, err := codec.Line().Decode(data)
	if err != nil {
		return false, fmt.Errorf("%w: decoding %s: %v", ErrMigrationFailed, linePath, err)
	}
	if len(tasks) == 0 && strings.TrimSpace(string(data)) != "" {
		return false, fmt.Errorf("%w: no readable records in %s", ErrMigrationFailed, linePath)
	}

	out, err := codec.Document().Encode(tasks)
	if err != nil {
		return false, fmt.Errorf("%w: encoding %s: %v", ErrMigrationFailed, docPath, err)
	}
	if err := writeAtomic(docPath, out); err != nil {
		return false, fmt.Errorf("%w: writing %s: %v", ErrMigrationFailed, docPath, err)
	}
	if err := os.Rename(linePath, linePath+BackupSuffix); err != nil {
		return false, fmt.Errorf("backing up %s: %w", linePath, err)
	}

	slog.Info("migrated store", "from", linePath, "to", docPath, "tasks", len(tasks))
	return true, nil
}
