package handlers

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gorilla/mux"
	"golang.org/x/image/draw"

	"brushvault/internal/library"
	"brushvault/internal/logging"
	"brushvault/internal/scanindex"
	"brushvault/internal/startup"
	"brushvault/internal/zbp"
)

// maxThumbScale caps the ?scale= upscale factor for rendered previews.
const maxThumbScale = 8

// Handlers carries the dependencies of the catalog API.
type Handlers struct {
	scanner *library.Scanner
	index   *scanindex.Index
	started time.Time
}

// New creates the API handler set.
func New(scanner *library.Scanner, index *scanindex.Index) *Handlers {
	return &Handlers{
		scanner: scanner,
		index:   index,
		started: time.Now(),
	}
}

// Register attaches all API routes to the router.
func (h *Handlers) Register(r *mux.Router) {
	r.HandleFunc("/api/catalog", h.Catalog).Methods(http.MethodGet)
	r.HandleFunc("/api/thumbnail/{identity}", h.Thumbnail).Methods(http.MethodGet)
	r.HandleFunc("/api/rescan", h.Rescan).Methods(http.MethodPost)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.Ready).Methods(http.MethodGet)
	r.HandleFunc("/version", h.Version).Methods(http.MethodGet)
}

// catalogResponse is the /api/catalog payload.
type catalogResponse struct {
	Entries   []library.CatalogEntry `json:"entries"`
	Failures  []library.ScanFailure  `json:"failures,omitempty"`
	Extracted int                    `json:"extracted"`
	Reused    int                    `json:"reused"`
	Scanning  bool                   `json:"scanning"`
	LastScan  *time.Time             `json:"lastScan,omitempty"`
}

// Catalog returns the entries from the most recent completed scan pass.
func (h *Handlers) Catalog(w http.ResponseWriter, r *http.Request) {
	resp := catalogResponse{
		Entries:  []library.CatalogEntry{},
		Scanning: h.scanner.IsScanning(),
	}
	if res := h.scanner.Catalog(); res != nil {
		resp.Entries = res.Entries
		resp.Failures = res.Failures
		resp.Extracted = res.Extracted
		resp.Reused = res.Reused
	}
	if t := h.scanner.LastScanTime(); !t.IsZero() {
		resp.LastScan = &t
	}
	writeJSON(w, http.StatusOK, resp)
}

// Thumbnail renders the cached preview for one identity as a PNG. An
// optional ?scale= query parameter upscales the 96x96 image by an integer
// factor using nearest-neighbour sampling so brush alphas stay crisp.
func (h *Handlers) Thumbnail(w http.ResponseWriter, r *http.Request) {
	identity := mux.Vars(r)["identity"]
	if identity == "" {
		writeError(w, http.StatusBadRequest, "missing identity")
		return
	}

	entry, found, err := h.index.Lookup(r.Context(), identity)
	if err != nil {
		logging.Error("Thumbnail lookup for %q failed: %v", identity, err)
		writeError(w, http.StatusInternalServerError, "index lookup failed")
		return
	}
	if !found || entry.ThumbPath == "" {
		writeError(w, http.StatusNotFound, "no preview for identity")
		return
	}

	raw, err := os.ReadFile(entry.ThumbPath)
	if err != nil {
		logging.Error("Thumbnail read %s failed: %v", entry.ThumbPath, err)
		writeError(w, http.StatusNotFound, "preview artifact missing")
		return
	}
	if len(raw) != zbp.ThumbnailBytes {
		writeError(w, http.StatusInternalServerError, "preview artifact has wrong size")
		return
	}

	img := rgbaFromRaw(raw)

	scale := 1
	if s := r.URL.Query().Get("scale"); s != "" {
		scale, err = strconv.Atoi(s)
		if err != nil || scale < 1 || scale > maxThumbScale {
			writeError(w, http.StatusBadRequest, "scale must be an integer between 1 and 8")
			return
		}
	}
	if scale > 1 {
		img = upscale(img, scale)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=3600")
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		logging.Error("Thumbnail encode for %q failed: %v", identity, err)
	}
}

// Rescan kicks off a scan pass in the background. Returns 409 if a pass
// is already running.
func (h *Handlers) Rescan(w http.ResponseWriter, r *http.Request) {
	if h.scanner.IsScanning() {
		writeError(w, http.StatusConflict, "scan already in progress")
		return
	}
	go func() {
		if _, err := h.scanner.Scan(context.Background()); err != nil {
			logging.Error("Triggered scan failed: %v", err)
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scan started"})
}

// Health reports process liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// Ready reports readiness: the service is ready once at least one scan
// pass has completed.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	if h.scanner.LastScanTime().IsZero() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "waiting for first scan"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Version reports build information.
func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, startup.GetBuildInfo())
}

// rgbaFromRaw wraps a raw 96x96 RGBA buffer as an image without copying.
func rgbaFromRaw(raw []byte) *image.RGBA {
	return &image.RGBA{
		Pix:    raw,
		Stride: zbp.ThumbnailWidth * 4,
		Rect:   image.Rect(0, 0, zbp.ThumbnailWidth, zbp.ThumbnailHeight),
	}
}

// upscale enlarges img by an integer factor with nearest-neighbour
// sampling.
func upscale(img *image.RGBA, factor int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx()*factor, img.Bounds().Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
