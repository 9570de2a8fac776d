// Package codec implements the two interchangeable on-disk serializations
// of a task collection: a line-record form (one self-contained JSON record
// per line) and a document form (one human-readable markdown section per
// task). Both guarantee that Decode(Encode(x)) reproduces x exactly,
// including free text containing the formats' own structural markers.
package codec

import (
	"strings"

	"github.com/mesh-intelligence/readyq/pkg/task"
)

// Format identifies which on-disk serialization a file uses.
type Format int

const (
	FormatUnknown Format = iota
	FormatLine
	FormatDocument
)

func (f Format) String() string {
	switch f {
	case FormatLine:
		return "line"
	case FormatDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Codec converts a task collection to and from bytes.
type Codec interface {
	// Name identifies the codec in logs and errors.
	Name() string

	// Encode renders the whole collection.
	Encode(tasks []task.Task) ([]byte, error)

	// Decode parses the whole collection. Unparseable records are
	// skipped with a warning rather than failing the decode.
	Decode(data []byte) ([]task.Task, error)

	// AppendRecord renders one task as bytes suitable for appending to
	// an existing file, without reparsing what is already there. first
	// is true when the file is empty so far.
	AppendRecord(t task.Task, first bool) ([]byte, error)
}

// Line returns the line-record codec.
func Line() Codec { return lineCodec{} }

// Document returns the markdown document codec.
func Document() Codec { return docCodec{} }

// For returns the codec for a detected format, or nil for FormatUnknown.
func For(f Format) Codec {
	switch f {
	case FormatLine:
		return Line()
	case FormatDocument:
		return Document()
	default:
		return nil
	}
}

// Sniff inspects file content and reports which serialization it holds.
// The first non-blank line decides: a brace-delimited record means the
// line format, a task heading means the document format.
func Sniff(data []byte) Format {
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "{") {
			return FormatLine
		}
		if strings.HasPrefix(trimmed, taskHeadingPrefix) {
			return FormatDocument
		}
		return FormatUnknown
	}
	return FormatUnknown
}
