package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"brushvault/internal/logging"
	"brushvault/internal/metrics"
	"brushvault/internal/scanindex"
	"brushvault/internal/workers"
	"brushvault/internal/zbp"
)

// Config holds the scanner's collaborator-owned inputs: the prioritized
// root list, the artifact directory, and the tone-adjustment flag.
type Config struct {
	// Roots are scanned in order; the first root to claim an identity
	// wins. Missing directories are skipped.
	Roots []string

	// Extensions are the preset file extensions to match, compared
	// case-insensitively. Defaults to .zbp.
	Extensions []string

	// ThumbDir receives the raw 96×96 RGBA artifacts.
	ThumbDir string

	// ToneAdjust enables the alpha boost during assembly.
	ToneAdjust bool

	// CaseSensitive keeps the file stem's case in the identity. By
	// default identities are lower-cased so "Clay.ZBP" and "clay.zbp"
	// collide.
	CaseSensitive bool

	// Workers caps the extraction pool; 0 sizes it from the CPU count.
	Workers int
}

// Scanner keeps extracted previews in sync with the preset files beneath
// the configured roots.
type Scanner struct {
	cfg     Config
	index   *scanindex.Index
	extract Extractor

	mu       sync.Mutex
	scanning bool
	lastScan time.Time
	lastRes  *Result
}

// NewScanner creates a Scanner over the given scan index.
func NewScanner(index *scanindex.Index, cfg Config) *Scanner {
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".zbp"}
	}
	return &Scanner{
		cfg:     cfg,
		index:   index,
		extract: zbpExtractor{},
	}
}

// SetExtractor replaces the preview extractor. Tests use this to observe
// exactly which files get decoded.
func (s *Scanner) SetExtractor(e Extractor) {
	s.extract = e
}

// candidate is one de-duplicated file discovered during the sequential
// phase. order is its position in the pass output.
type candidate struct {
	order    int
	identity string
	path     string
	category string
	mtime    time.Time
}

// extractResult travels from an extraction worker back to the collector.
type extractResult struct {
	cand      candidate
	thumbPath string
	err       error
}

// Scan runs one full pass: discover, de-duplicate, refresh stale entries,
// and return the catalog in root-priority-then-discovery order.
//
// Per-file failures are reported in the Result and never abort the pass.
// The returned error is reserved for pass-level problems: context
// cancellation, an uncreatable artifact directory, or a scan index that
// stopped accepting writes.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	if !s.tryStart() {
		logging.Info("Scan already in progress, skipping")
		return nil, nil
	}
	defer s.finish()

	metrics.ScanIsRunning.Set(1)
	defer metrics.ScanIsRunning.Set(0)
	metrics.ScanRunsTotal.Inc()

	start := time.Now()
	logging.Info("Starting library scan across %d roots", len(s.cfg.Roots))

	candidates, err := s.discover(ctx)
	if err != nil {
		return nil, err
	}
	metrics.ScanFilesDiscovered.Add(float64(len(candidates)))

	if err := os.MkdirAll(s.cfg.ThumbDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrPersistFailure, s.cfg.ThumbDir, err)
	}

	res := &Result{Entries: make([]CatalogEntry, len(candidates))}
	done := make([]bool, len(candidates))

	// Freshness partition. Fresh files reuse the stored artifact with
	// zero decode work.
	var stale []candidate
	for _, c := range candidates {
		if s.index.IsFresh(ctx, c.identity, c.mtime) {
			entry, ok, err := s.index.Lookup(ctx, c.identity)
			if ok && err == nil {
				res.Entries[c.order] = CatalogEntry{
					Identity:   c.identity,
					SourcePath: c.path,
					Category:   c.category,
					ThumbPath:  entry.ThumbPath,
					ModTime:    c.mtime,
				}
				done[c.order] = true
				res.Reused++
				metrics.ScanCacheHits.Inc()
				continue
			}
		}
		stale = append(stale, c)
	}

	if err := s.refresh(ctx, stale, res, done); err != nil {
		return nil, err
	}

	// Drop the slots of failed files, keeping order.
	entries := res.Entries[:0]
	for i, e := range res.Entries {
		if done[i] {
			entries = append(entries, e)
		}
	}
	res.Entries = entries

	res.Duration = time.Since(start)
	metrics.ScanDuration.Observe(res.Duration.Seconds())
	metrics.ScanLastRunTimestamp.Set(float64(time.Now().Unix()))
	logging.Info("Scan complete: %d entries (%d extracted, %d reused, %d failed) in %v",
		len(res.Entries), res.Extracted, res.Reused, len(res.Failures), res.Duration)

	s.mu.Lock()
	s.lastScan = time.Now()
	s.lastRes = res
	s.mu.Unlock()

	return res, nil
}

// discover walks the roots strictly in priority order and applies the
// first-root-wins de-duplication. This phase must stay sequential: the
// winner of a duplicate identity is defined by ordering, not by a set.
func (s *Scanner) discover(ctx context.Context) ([]candidate, error) {
	exts := make(map[string]bool, len(s.cfg.Extensions))
	for _, e := range s.cfg.Extensions {
		exts[strings.ToLower(e)] = true
	}

	var candidates []candidate
	claimed := make(map[string]bool)

	for _, root := range s.cfg.Roots {
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			logging.Debug("Skipping missing scan root %s", root)
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return fs.SkipAll
			}
			if err != nil {
				logging.Warn("Error accessing %s: %v", path, err)
				return nil
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if !exts[strings.ToLower(filepath.Ext(d.Name()))] {
				return nil
			}

			identity := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
			if !s.cfg.CaseSensitive {
				identity = strings.ToLower(identity)
			}
			if claimed[identity] {
				metrics.ScanDuplicatesSkipped.Inc()
				logging.Debug("Skipping %s: identity %q already claimed by an earlier root", path, identity)
				return nil
			}

			info, err := d.Info()
			if err != nil {
				logging.Warn("Error reading file info for %s: %v", path, err)
				return nil
			}

			category := filepath.Base(filepath.Dir(path))
			if filepath.Dir(path) == filepath.Clean(root) {
				category = ""
			}

			claimed[identity] = true
			candidates = append(candidates, candidate{
				order:    len(candidates),
				identity: identity,
				path:     path,
				category: category,
				mtime:    info.ModTime(),
			})
			return nil
		})
		if err != nil {
			logging.Warn("Error walking scan root %s: %v", root, err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return candidates, nil
}

// refresh fans stale candidates out to the extraction pool and commits
// index records serially as results arrive.
func (s *Scanner) refresh(ctx context.Context, stale []candidate, res *Result, done []bool) error {
	if len(stale) == 0 {
		return nil
	}

	numWorkers := s.cfg.Workers
	if numWorkers <= 0 {
		numWorkers = workers.ForMixed(0)
	}
	if numWorkers > len(stale) {
		numWorkers = len(stale)
	}
	metrics.ScanWorkers.Set(float64(numWorkers))
	logging.Debug("Extracting %d stale previews with %d workers", len(stale), numWorkers)

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan candidate)
	results := make(chan extractResult)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				thumb, err := s.extractOne(c)
				select {
				case results <- extractResult{cand: c, thumbPath: thumb, err: err}:
				case <-workCtx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, c := range stale {
			select {
			case jobs <- c:
			case <-workCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single collector: index writes are serialized here. A failed
	// record invalidates future freshness decisions, so it aborts the
	// pass after the in-flight workers drain.
	var passErr error
	for r := range results {
		c := r.cand
		if r.err != nil {
			res.Failures = append(res.Failures, ScanFailure{
				Identity: c.identity,
				Path:     c.path,
				Err:      r.err,
				Kind:     errKind(r.err),
			})
			metrics.ScanFailures.Inc()
			logging.Warn("Preview extraction failed for %s: %v", c.path, r.err)
			continue
		}
		if passErr != nil {
			continue // draining after a record failure
		}

		err := s.index.Record(ctx, scanindex.Entry{
			Identity:   c.identity,
			SourcePath: c.path,
			SourceMod:  c.mtime,
			ThumbPath:  r.thumbPath,
		})
		if err != nil {
			passErr = fmt.Errorf("scan index rejected record: %w", err)
			cancel()
			continue
		}

		res.Entries[c.order] = CatalogEntry{
			Identity:   c.identity,
			SourcePath: c.path,
			Category:   c.category,
			ThumbPath:  r.thumbPath,
			ModTime:    c.mtime,
		}
		done[c.order] = true
		res.Extracted++
	}

	if passErr != nil {
		return passErr
	}
	return ctx.Err()
}

// extractOne is one worker job: read, decode, persist. Pure with respect
// to scanner state, so any number may run concurrently.
func (s *Scanner) extractOne(c candidate) (string, error) {
	start := time.Now()
	status := "success"
	defer func() {
		metrics.ExtractionsTotal.WithLabelValues(status).Inc()
		metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	}()

	data, err := readPresetHeader(c.path)
	if err != nil {
		status = "error"
		err = fmt.Errorf("%w: %s: %v", ErrUnreadableSource, c.path, err)
		metrics.ExtractionErrors.WithLabelValues(errKind(err)).Inc()
		return "", err
	}

	rgba, err := s.extract.Extract(data, zbp.Options{ToneAdjust: s.cfg.ToneAdjust})
	if err != nil {
		status = "error"
		metrics.ExtractionErrors.WithLabelValues(errKind(err)).Inc()
		return "", err
	}

	thumbPath := s.thumbPathFor(c.identity)
	if err := writeAtomic(thumbPath, rgba); err != nil {
		status = "error"
		err = fmt.Errorf("%w: %s: %v", ErrPersistFailure, thumbPath, err)
		metrics.ExtractionErrors.WithLabelValues(errKind(err)).Inc()
		return "", err
	}
	return thumbPath, nil
}

// thumbPathFor derives the deterministic artifact path for an identity.
func (s *Scanner) thumbPathFor(identity string) string {
	return filepath.Join(s.cfg.ThumbDir, sanitizeIdentity(identity)+".rgba")
}

// sanitizeIdentity keeps letters, digits, spaces, underscores and hyphens;
// everything else becomes an underscore so the identity is safe as a file
// name on every platform.
func sanitizeIdentity(identity string) string {
	var b strings.Builder
	b.Grow(len(identity))
	for _, r := range identity {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// readPresetHeader reads the leading bytes of a preset file that can
// contain the compressed preview.
func readPresetHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data := make([]byte, zbp.HeaderReadSize)
	n := 0
	for n < len(data) {
		m, err := f.Read(data[n:])
		n += m
		if err != nil {
			break
		}
	}
	return data[:n], nil
}

// writeAtomic writes data to path with a write-then-rename so a crashed
// pass never leaves a truncated artifact behind.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".thumb-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *Scanner) tryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanning {
		return false
	}
	s.scanning = true
	return true
}

func (s *Scanner) finish() {
	s.mu.Lock()
	s.scanning = false
	s.mu.Unlock()
}

// IsScanning reports whether a pass is currently in progress.
func (s *Scanner) IsScanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning
}

// Catalog returns the entries from the most recent completed pass, or nil
// if none has completed yet.
func (s *Scanner) Catalog() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRes
}

// LastScanTime returns when the most recent pass completed.
func (s *Scanner) LastScanTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastScan
}
