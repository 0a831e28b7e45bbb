package library

import (
	"errors"
	"time"

	"brushvault/internal/zbp"
)

var (
	// ErrUnreadableSource marks an I/O failure opening or reading a
	// preset file.
	ErrUnreadableSource = errors.New("library: unreadable source file")

	// ErrPersistFailure marks a failure writing a preview artifact.
	ErrPersistFailure = errors.New("library: failed to persist preview")
)

// CatalogEntry is one preset of the scanned library, handed to whatever
// presentation or metadata layer sits on top.
type CatalogEntry struct {
	Identity   string    `json:"identity"`
	SourcePath string    `json:"sourcePath"`
	Category   string    `json:"category,omitempty"`
	ThumbPath  string    `json:"thumbPath,omitempty"`
	ModTime    time.Time `json:"modTime"`
}

// ScanFailure is a per-file failure notice. Failures never abort a pass;
// they are surfaced so an operator can inspect the offending file.
type ScanFailure struct {
	Identity string `json:"identity"`
	Path     string `json:"path"`
	Err      error  `json:"-"`
	Kind     string `json:"kind"`
}

// errKind maps a failure to a stable label for notices and metrics.
func errKind(err error) string {
	var vErr *zbp.UnsupportedVersionError
	switch {
	case errors.Is(err, zbp.ErrMagicNotFound):
		return "magic_not_found"
	case errors.As(err, &vErr):
		return "unsupported_version"
	case errors.Is(err, zbp.ErrCorruptBlock):
		return "corrupt_block"
	case errors.Is(err, ErrUnreadableSource):
		return "unreadable_source"
	case errors.Is(err, ErrPersistFailure):
		return "persist_failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one scan pass.
type Result struct {
	Entries  []CatalogEntry `json:"entries"`
	Failures []ScanFailure  `json:"failures,omitempty"`
	Duration time.Duration  `json:"-"`
	// Extracted counts files actually decoded this pass (cache misses).
	Extracted int `json:"extracted"`
	// Reused counts files the scan index reported fresh.
	Reused int `json:"reused"`
}

// Extractor turns raw preset bytes into a preview buffer. The scanner
// depends on this interface so tests can count and stub invocations.
type Extractor interface {
	Extract(data []byte, opts zbp.Options) ([]byte, error)
}

// zbpExtractor is the production Extractor.
type zbpExtractor struct{}

func (zbpExtractor) Extract(data []byte, opts zbp.Options) ([]byte, error) {
	return zbp.Extract(data, opts)
}
