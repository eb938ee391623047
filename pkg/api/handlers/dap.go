package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opendap-go/dapserve/internal/dapcore"
	"github.com/opendap-go/dapserve/internal/logger"
	"github.com/opendap-go/dapserve/pkg/dap"
	"github.com/opendap-go/dapserve/pkg/metrics"
)

// DAPHandler serves the three DAP response bodies for a single Dataset.
// spec.md's C6 response assembler (pkg/dap) does all the constraint
// resolution and wire encoding; this handler only owns HTTP concerns: path
// routing, constraint extraction from the query string, status codes, and
// metrics.
type DAPHandler struct {
	ds  *dapcore.Dataset
	cfg *dap.Config
	m   *metrics.Metrics
}

// NewDAPHandler creates a handler serving ds under cfg, recording request
// metrics into m. m may be nil, disabling metrics collection.
func NewDAPHandler(ds *dapcore.Dataset, cfg *dap.Config, m *metrics.Metrics) *DAPHandler {
	return &DAPHandler{ds: ds, cfg: cfg, m: m}
}

// constraint extracts the raw DAP constraint expression from a request: the
// unescaped query string following the dataset's '?', e.g.
// "GET /data.dds?x,y[0:2]" carries the constraint "x,y[0:2]".
func constraint(r *http.Request) (string, error) {
	if r.URL.RawQuery == "" {
		return "", nil
	}
	return url.QueryUnescape(r.URL.RawQuery)
}

// DDS handles GET /{dataset}.dds.
func (h *DAPHandler) DDS(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	expr, err := constraint(r)
	if err != nil {
		h.fail(w, "dds", start, dapcore.BadConstraint, err)
		return
	}

	body, err := dap.DDS(h.ds, expr)
	if err != nil {
		h.fail(w, "dds", start, codeOf(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=us-ascii")
	w.Header().Set("Content-Description", "dods-dds")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
	h.m.RecordRequest("dds", "ok", time.Since(start))
}

// DAS handles GET /{dataset}.das.
func (h *DAPHandler) DAS(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	expr, err := constraint(r)
	if err != nil {
		h.fail(w, "das", start, dapcore.BadConstraint, err)
		return
	}

	body, err := dap.DAS(h.ds, expr)
	if err != nil {
		h.fail(w, "das", start, codeOf(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=us-ascii")
	w.Header().Set("Content-Description", "dods-das")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
	h.m.RecordRequest("das", "ok", time.Since(start))
}

// DODS handles GET /{dataset}.dods, streaming the combined DDS text + XDR
// binary payload directly to the response body.
func (h *DAPHandler) DODS(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	dataset := chi.URLParam(r, "dataset")

	expr, err := constraint(r)
	if err != nil {
		h.fail(w, "dods", start, dapcore.BadConstraint, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Description", "dods-data")
	w.WriteHeader(http.StatusOK)

	h.m.StreamStarted()
	defer h.m.StreamEnded()

	cw := &metrics.CountingWriter{W: w, M: h.m, Dataset: dataset}
	if err := dap.DODS(cw, h.ds, expr, h.cfg.ChunkSizeBytes.EncoderChunkSize()); err != nil {
		// Headers are already sent, so the failure can only be logged,
		// not turned into an error response body.
		logger.ErrorCtx(r.Context(), "dods stream failed", "dataset", dataset, "error", err)
		h.m.RecordRequest("dods", "error", time.Since(start))
		return
	}
	h.m.RecordRequest("dods", "ok", time.Since(start))
}

// fail writes an error response body in the status family the failure's
// dapcore.Code implies, and records the outcome in metrics.
func (h *DAPHandler) fail(w http.ResponseWriter, kind string, start time.Time, code dapcore.Code, err error) {
	if code == dapcore.BadConstraint || code == dapcore.BadSlice {
		h.m.RecordConstraintParseFailure()
	}
	h.m.RecordRequest(kind, "error", time.Since(start))

	switch code {
	case dapcore.BadConstraint, dapcore.BadSlice:
		DAPError(w, http.StatusBadRequest, code, err.Error())
	default:
		DAPError(w, http.StatusInternalServerError, code, err.Error())
	}
}

// codeOf extracts the dapcore.Code from err, defaulting to
// InternalInvariant when err did not originate from dapcore (it should
// always have, since pkg/dap wraps every failure through dapcore.Error).
func codeOf(err error) dapcore.Code {
	var derr *dapcore.Error
	if errors.As(err, &derr) {
		return derr.Code
	}
	return dapcore.InternalInvariant
}
