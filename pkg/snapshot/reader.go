package snapshot

import (
	"bufio"
	"io"

	"github.com/cespare/xxhash/v2"
)

type Reader struct {
	src    *bufio.Scanner
	delim  byte
	digest *xxhash.Digest
	stats  Stats
}

func NewReader(r io.Reader, delim byte) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{
		src:    s,
		delim:  delim,
		digest: xxhash.New(),
	}
}

// ReadRecord returns the next valid record, silently skipping lines that do
// not parse. It returns io.EOF once the input is exhausted.
func (r *Reader) ReadRecord() (key, value string, err error) {
	for r.src.Scan() {
		line := r.src.Text()
		r.stats.Bytes += int64(len(line)) + 1

		key, value, ok := ParseLine(line, r.delim)
		if !ok {
			r.stats.Skipped++
			continue
		}
		_, _ = r.digest.Write(encodeRecord(key, value, r.delim))
		r.stats.Records++
		return key, value, nil
	}
	if err := r.src.Err(); err != nil {
		return "", "", err
	}
	return "", "", io.EOF
}

func (r *Reader) Stats() Stats {
	s := r.stats
	s.Checksum = r.digest.Sum64()
	return s
}
