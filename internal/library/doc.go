// Package library walks a prioritized list of preset directories and keeps
// the extracted previews in sync with the files on disk.
//
// A scan pass has three phases with different ordering requirements:
//
//   - Discovery is strictly sequential in root-priority order. The first
//     root to claim an identity (the case-folded file stem) wins; later
//     occurrences are skipped before any cache check happens.
//   - Extraction of stale candidates fans out to a worker pool. Each job
//     is independent: read the file, decode the preview, write the
//     36 864-byte artifact with a write-then-rename.
//   - Index commits fan back in to a single collector, so at most one
//     scan index writer is active at a time.
//
// Files the scan index reports as fresh (stored mtime equals the current
// one) are reused without any decode work. One file's failure is recorded
// and skipped; only a scan index write failure aborts the pass.
package library
