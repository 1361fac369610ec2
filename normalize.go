package framz

import (
	"context"
	"strings"
	"unicode/utf8"
)

// minRecordBytes is the smallest payload size worth forwarding; anything
// shorter is treated as noise and dropped.
const minRecordBytes = 4

// Normalize produces a new record sequence from records by:
//   - dropping any record whose byte length is 3 or less,
//   - dropping any record whose bytes are not valid UTF-8,
//   - uppercasing the text of every survivor, codepoint-wise and
//     locale-insensitive.
//
// Dropping is a per-record filtering decision, never an error: a non-text
// payload disappears silently while framing violations upstream stay fatal.
// Output ordering is preserved relative to input ordering; no record is
// split, merged, or reordered. The input slice is not modified.
func Normalize(records []Record) []Record {
	out := make([]Record, 0, len(records))

	for _, rec := range records {
		if len(rec) < minRecordBytes {
			continue
		}
		if !utf8.Valid(rec) {
			continue
		}
		out = append(out, Record(strings.ToUpper(string(rec))))
	}

	return out
}

// NormalizeStage adapts Normalize into a pipeline stage. Normalization is a
// pure transformation, so the stage cannot fail.
func NormalizeStage(name Name) Processor[[]Record, []Record] {
	return Transform(name, func(_ context.Context, records []Record) []Record {
		return Normalize(records)
	})
}
