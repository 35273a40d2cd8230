package snapshot

import (
	"errors"
	"fmt"
	"strings"
)

// Snapshot format:
//   --- record ---   key | delimiter | value | '\n'
//   --- record ---
//   ---  ...   ---
//
// There is no escaping. A line splits at the first delimiter, so values may
// contain the delimiter verbatim but keys may not. Lines that are empty, lack
// a delimiter, or yield an empty key or value are skipped on load.

const (
	DefaultPath      = "store/dumpFile"
	DefaultDelimiter = ':'

	// maxLineSize bounds a single record line on load.
	maxLineSize = 16 * 1024 * 1024
)

var (
	ErrInvalidConfig = errors.New("snapshot: invalid config")
	ErrInvalidRecord = errors.New("snapshot: invalid record")
	ErrSnapshotIO    = errors.New("snapshot: io error")
	ErrLocked        = errors.New("snapshot: locked by another writer")
)

type Config struct {
	Path      string
	Delimiter byte
}

func DefaultConfig() Config {
	return Config{
		Path:      DefaultPath,
		Delimiter: DefaultDelimiter,
	}
}

func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: empty snapshot path", ErrInvalidConfig)
	}
	if c.Delimiter == '\n' || c.Delimiter == '\r' || c.Delimiter == 0 {
		return fmt.Errorf("%w: delimiter must be a printable byte", ErrInvalidConfig)
	}
	return nil
}

// Stats describes one dump or load. Checksum is an xxhash64 over the encoded
// form of every accepted record, so a dump and a later load of the same file
// report the same value.
type Stats struct {
	Records  int
	Skipped  int
	Bytes    int64
	Checksum uint64
}

// ValidateRecord reports whether key and value survive a round trip through
// the line format.
func ValidateRecord(key, value string, delim byte) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty key", ErrInvalidRecord)
	case value == "":
		return fmt.Errorf("%w: empty value", ErrInvalidRecord)
	case strings.IndexByte(key, delim) >= 0:
		return fmt.Errorf("%w: key contains the delimiter", ErrInvalidRecord)
	case strings.ContainsAny(key, "\r\n"), strings.ContainsAny(value, "\r\n"):
		return fmt.Errorf("%w: line break inside record", ErrInvalidRecord)
	}
	return nil
}

// ParseLine splits line at the first delimiter.
func ParseLine(line string, delim byte) (key, value string, ok bool) {
	i := strings.IndexByte(line, delim)
	if line == "" || i < 0 {
		return "", "", false
	}
	key, value = line[:i], line[i+1:]
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}
