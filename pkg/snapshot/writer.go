package snapshot

import (
	"bufio"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Writer encodes records onto an io.Writer. Output is buffered; call Flush
// when done.
type Writer struct {
	dest   *bufio.Writer
	delim  byte
	digest *xxhash.Digest
	stats  Stats
}

func NewWriter(w io.Writer, delim byte) *Writer {
	return &Writer{
		dest:   bufio.NewWriter(w),
		delim:  delim,
		digest: xxhash.New(),
	}
}

// AddRecord appends one record. Records the format cannot represent are
// rejected with ErrInvalidRecord and nothing is written.
func (w *Writer) AddRecord(key, value string) error {
	if err := ValidateRecord(key, value, w.delim); err != nil {
		return err
	}
	line := encodeRecord(key, value, w.delim)
	n, err := w.dest.Write(line)
	w.stats.Bytes += int64(n)
	if err != nil {
		return err
	}
	_, _ = w.digest.Write(line)
	w.stats.Records++
	return nil
}

// Skip counts a record that was left out of the output.
func (w *Writer) Skip() {
	w.stats.Skipped++
}

func (w *Writer) Flush() error {
	return w.dest.Flush()
}

func (w *Writer) Stats() Stats {
	s := w.stats
	s.Checksum = w.digest.Sum64()
	return s
}

func encodeRecord(key, value string, delim byte) []byte {
	line := make([]byte, 0, len(key)+len(value)+2)
	line = append(line, key...)
	line = append(line, delim)
	line = append(line, value...)
	return append(line, '\n')
}
