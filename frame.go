package framz

import (
	"context"
	"encoding/binary"
	"fmt"
)

// Record is an opaque byte payload extracted from framed binary input. No
// charset is assumed; records are created during decoding and owned by
// whichever stage currently holds them.
type Record = []byte

// frameHeaderBytes is the size of the length prefix on every frame.
const frameHeaderBytes = 4

// TruncatedRecordError reports a frame whose header declares more payload
// bytes than remain in the buffer.
type TruncatedRecordError struct {
	Declared  uint32
	Remaining int
}

func (e *TruncatedRecordError) Error() string {
	return fmt.Sprintf("truncated record: declared %d bytes, %d remaining", e.Declared, e.Remaining)
}

// TrailingBytesError reports leftover bytes after the last complete frame.
// A 1-3 byte remainder after the final frame is reported here as well; a
// partial header is not distinguished from any other trailing garbage.
type TrailingBytesError struct {
	Bytes int
}

func (e *TrailingBytesError) Error() string {
	return fmt.Sprintf("%d trailing bytes after last complete frame", e.Bytes)
}

// RecordSizeError reports a frame whose declared payload size exceeds the
// decoder's configured MaxRecordBytes bound.
type RecordSizeError struct {
	Declared uint32
	Limit    uint32
}

func (e *RecordSizeError) Error() string {
	return fmt.Sprintf("record of %d bytes exceeds limit of %d", e.Declared, e.Limit)
}

// RecordCountError reports a buffer containing more records than the
// decoder's configured MaxRecords bound.
type RecordCountError struct {
	Count int
	Limit int
}

func (e *RecordCountError) Error() string {
	return fmt.Sprintf("record count %d exceeds limit of %d", e.Count, e.Limit)
}

// Decoder parses flat byte buffers into ordered record sequences.
//
// Wire format, repeated until the buffer is exhausted:
//
//	length : uint32, big-endian
//	payload: length raw bytes
//
// No magic number, version field, or checksum, and no trailing bytes
// permitted. The zero value decodes with no bounds; production callers
// handling untrusted input should set MaxRecordBytes and MaxRecords to cap
// allocation.
type Decoder struct {
	// MaxRecordBytes caps the declared payload size of a single frame.
	// Zero means unlimited.
	MaxRecordBytes uint32

	// MaxRecords caps the number of records in one buffer.
	// Zero means unlimited.
	MaxRecords int
}

// Decode parses buf into its ordered sequence of records. Each payload is
// copied out of buf, so the caller may reuse buf after Decode returns.
//
// Decode fails with *TruncatedRecordError when a header declares more
// payload than remains, and with *TrailingBytesError when the cursor does
// not land exactly on the end of the buffer after the last complete frame.
// No partial results are returned on failure.
func (d Decoder) Decode(buf []byte) ([]Record, error) {
	var records []Record
	i := 0

	for len(buf)-i >= frameHeaderBytes {
		length := binary.BigEndian.Uint32(buf[i : i+frameHeaderBytes])
		i += frameHeaderBytes

		if d.MaxRecordBytes > 0 && length > d.MaxRecordBytes {
			return nil, &RecordSizeError{Declared: length, Limit: d.MaxRecordBytes}
		}

		remaining := len(buf) - i
		if int64(length) > int64(remaining) {
			return nil, &TruncatedRecordError{Declared: length, Remaining: remaining}
		}

		if d.MaxRecords > 0 && len(records) >= d.MaxRecords {
			return nil, &RecordCountError{Count: len(records) + 1, Limit: d.MaxRecords}
		}

		payload := make(Record, length)
		copy(payload, buf[i:i+int(length)])
		i += int(length)

		records = append(records, payload)
	}

	if i != len(buf) {
		return nil, &TrailingBytesError{Bytes: len(buf) - i}
	}

	return records, nil
}

// Decode parses buf with an unbounded Decoder.
func Decode(buf []byte) ([]Record, error) {
	return Decoder{}.Decode(buf)
}

// Encode serializes an ordered sequence of records into the wire format.
// Encoding any sequence and decoding the result yields the original
// sequence, byte for byte and in order.
func Encode(records []Record) []byte {
	size := 0
	for _, rec := range records {
		size += frameHeaderBytes + len(rec)
	}

	buf := make([]byte, 0, size)
	for _, rec := range records {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(rec)))
		buf = append(buf, rec...)
	}
	return buf
}

// DecodeStage adapts a Decoder into a pipeline stage from raw bytes to an
// ordered record sequence.
func DecodeStage(name Name, d Decoder) Processor[[]byte, []Record] {
	return Apply(name, func(_ context.Context, buf []byte) ([]Record, error) {
		return d.Decode(buf)
	})
}
