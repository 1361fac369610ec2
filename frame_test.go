package framz

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDecode(t *testing.T) {
	t.Run("Empty Buffer", func(t *testing.T) {
		records, err := Decode(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}
	})

	t.Run("Single Record", func(t *testing.T) {
		buf := []byte{0x00, 0x00, 0x00, 0x04, 0x74, 0x65, 0x73, 0x74}

		records, err := Decode(buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []Record{Record("test")}
		if diff := cmp.Diff(want, records); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Multiple Records In Order", func(t *testing.T) {
		// 3-byte record "abc" followed by 2-byte record "xy"
		buf := []byte{
			0x00, 0x00, 0x00, 0x03, 0x61, 0x62, 0x63,
			0x00, 0x00, 0x00, 0x02, 0x78, 0x79,
		}

		records, err := Decode(buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []Record{Record("abc"), Record("xy")}
		if diff := cmp.Diff(want, records); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Zero Length Payload", func(t *testing.T) {
		buf := []byte{0x00, 0x00, 0x00, 0x00}

		records, err := Decode(buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		if len(records[0]) != 0 {
			t.Errorf("expected empty record, got %d bytes", len(records[0]))
		}
	})

	t.Run("Truncated Record", func(t *testing.T) {
		// Header declares 5 bytes, only 3 remain.
		buf := []byte{0x00, 0x00, 0x00, 0x05, 0x61, 0x62, 0x63}

		records, err := Decode(buf)
		if records != nil {
			t.Error("expected no partial results on failure")
		}

		var trunc *TruncatedRecordError
		if !errors.As(err, &trunc) {
			t.Fatalf("expected TruncatedRecordError, got %v", err)
		}
		if trunc.Declared != 5 {
			t.Errorf("expected declared 5, got %d", trunc.Declared)
		}
		if trunc.Remaining != 3 {
			t.Errorf("expected remaining 3, got %d", trunc.Remaining)
		}
	})

	t.Run("Truncated Frame After Valid Frame", func(t *testing.T) {
		buf := append(Encode([]Record{Record("good")}),
			0x00, 0x00, 0x01, 0x00, 0xDE, 0xAD)

		_, err := Decode(buf)

		var trunc *TruncatedRecordError
		if !errors.As(err, &trunc) {
			t.Fatalf("expected TruncatedRecordError, got %v", err)
		}
		if trunc.Declared != 256 {
			t.Errorf("expected declared 256, got %d", trunc.Declared)
		}
		if trunc.Remaining != 2 {
			t.Errorf("expected remaining 2, got %d", trunc.Remaining)
		}
	})

	t.Run("Trailing Bytes After Last Frame", func(t *testing.T) {
		for k := 1; k <= 3; k++ {
			well := Encode([]Record{Record("alpha"), Record("beta")})
			buf := append(well, make([]byte, k)...)

			records, err := Decode(buf)
			if records != nil {
				t.Errorf("k=%d: expected no partial results on failure", k)
			}

			var trailing *TrailingBytesError
			if !errors.As(err, &trailing) {
				t.Fatalf("k=%d: expected TrailingBytesError, got %v", k, err)
			}
			if trailing.Bytes != k {
				t.Errorf("k=%d: expected %d trailing bytes, got %d", k, k, trailing.Bytes)
			}
		}
	})

	t.Run("Short Inputs", func(t *testing.T) {
		// Fewer than 4 total bytes can never hold a header: the only
		// check performed is the trailing-bytes check.
		for n := 1; n <= 3; n++ {
			records, err := Decode(make([]byte, n))
			if records != nil {
				t.Errorf("n=%d: expected no records", n)
			}

			var trailing *TrailingBytesError
			if !errors.As(err, &trailing) {
				t.Fatalf("n=%d: expected TrailingBytesError, got %v", n, err)
			}
			if trailing.Bytes != n {
				t.Errorf("n=%d: expected %d trailing bytes, got %d", n, n, trailing.Bytes)
			}
		}
	})

	t.Run("Payload Is Copied Out Of Input", func(t *testing.T) {
		buf := []byte{0x00, 0x00, 0x00, 0x04, 0x74, 0x65, 0x73, 0x74}

		records, err := Decode(buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Mutating the input buffer must not reach the decoded record.
		buf[4] = 'X'
		if string(records[0]) != "test" {
			t.Errorf("record aliases input buffer: %q", records[0])
		}
	})
}

func TestEncode(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		sequences := [][]Record{
			nil,
			{Record("test")},
			{Record("abc"), Record("xy")},
			{Record(""), Record("a"), Record("héllo")},
			{Record{0x00, 0xFF, 0xFE, 0x01}, Record("mixed\x00payload")},
		}

		for _, want := range sequences {
			decoded, err := Decode(Encode(want))
			if err != nil {
				t.Fatalf("round trip failed: %v", err)
			}
			if diff := cmp.Diff(want, decoded, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		}
	})

	t.Run("Wire Layout", func(t *testing.T) {
		buf := Encode([]Record{Record("test")})

		want := []byte{0x00, 0x00, 0x00, 0x04, 0x74, 0x65, 0x73, 0x74}
		if diff := cmp.Diff(want, buf); diff != "" {
			t.Errorf("wire layout mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDecoderLimits(t *testing.T) {
	t.Run("Record Size Limit", func(t *testing.T) {
		d := Decoder{MaxRecordBytes: 4}
		buf := Encode([]Record{Record("short"), Record("okay")})

		_, err := d.Decode(buf)

		var size *RecordSizeError
		if !errors.As(err, &size) {
			t.Fatalf("expected RecordSizeError, got %v", err)
		}
		if size.Declared != 5 || size.Limit != 4 {
			t.Errorf("expected declared 5 limit 4, got %d/%d", size.Declared, size.Limit)
		}
	})

	t.Run("Record Count Limit", func(t *testing.T) {
		d := Decoder{MaxRecords: 2}
		buf := Encode([]Record{Record("one!"), Record("two!"), Record("tres")})

		_, err := d.Decode(buf)

		var count *RecordCountError
		if !errors.As(err, &count) {
			t.Fatalf("expected RecordCountError, got %v", err)
		}
		if count.Count != 3 || count.Limit != 2 {
			t.Errorf("expected count 3 limit 2, got %d/%d", count.Count, count.Limit)
		}
	})

	t.Run("Zero Value Is Unbounded", func(t *testing.T) {
		var d Decoder
		buf := Encode([]Record{make(Record, 1<<16)})

		records, err := d.Decode(buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 1 || len(records[0]) != 1<<16 {
			t.Error("expected the large record to decode")
		}
	})
}
