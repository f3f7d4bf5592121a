package processor

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/contribscope/backend/internal/domain"
)

// maxLineSize bounds a single NDJSON line. Commit records carry the
// full commit message, which can get large.
const maxLineSize = 4 << 20

// RecordReader decodes a newline-delimited JSON stream of records,
// one line at a time. Blank lines are skipped. A decode or read error
// stops the sequence and is reported by Err.
type RecordReader struct {
	scanner *bufio.Scanner
	count   int
	err     error
}

func NewRecordReader(r io.Reader) *RecordReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &RecordReader{scanner: scanner}
}

// All returns a lazy single-use sequence over the stream. Records are
// decoded only as the consumer pulls them.
func (r *RecordReader) All() iter.Seq[*domain.Record] {
	return func(yield func(*domain.Record) bool) {
		for r.scanner.Scan() {
			line := bytes.TrimSpace(r.scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			rec := &domain.Record{}
			if err := json.Unmarshal(line, rec); err != nil {
				r.err = fmt.Errorf("decode record on line %d: %w", r.count+1, err)
				return
			}
			r.count++
			if !yield(rec) {
				return
			}
		}
		if err := r.scanner.Err(); err != nil {
			r.err = fmt.Errorf("read records: %w", err)
		}
	}
}

// Count reports how many records have been decoded so far.
func (r *RecordReader) Count() int { return r.count }

// Err returns the first error hit while reading, nil when the stream
// ended cleanly.
func (r *RecordReader) Err() error { return r.err }
