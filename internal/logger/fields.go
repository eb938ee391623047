package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so that log
// aggregation/querying stays uniform across the encoder, the response
// assembler, and the demo HTTP surface.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// ========================================================================
	// DAP request shape
	// ========================================================================
	KeyDataset    = "dataset"    // Dataset root name
	KeyConstraint = "constraint" // Raw constraint expression string
	KeyResponse   = "response"   // dds, das, or dods
	KeyPath       = "path"       // Node data-path
	KeyNodeKind   = "node_kind"  // Dataset, Structure, Atom, Array, Grid, Sequence, Attribute

	// ========================================================================
	// Encoding
	// ========================================================================
	KeyDAPType    = "dap_type"    // DAP atomic type label
	KeyBytes      = "bytes"       // Bytes streamed
	KeyChunks     = "chunks"      // Number of chunks emitted
	KeyChunkSize  = "chunk_size"  // Configured chunk size in bytes
	KeyElemCount  = "elem_count"  // Element count of an array/grid payload

	// ========================================================================
	// Client / transport
	// ========================================================================
	KeyClientIP   = "client_ip"
	KeyRequestID  = "request_id"
	KeyMethod     = "method"
	KeyStatusCode = "status_code"

	// ========================================================================
	// Operation metadata
	// ========================================================================
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyErrorCode  = "error_code"
)

// Err returns a slog.Attr for an error, or a no-op attr for nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Dataset returns a slog.Attr for the dataset name.
func Dataset(name string) slog.Attr {
	return slog.String(KeyDataset, name)
}

// Constraint returns a slog.Attr for the raw constraint expression.
func Constraint(expr string) slog.Attr {
	return slog.String(KeyConstraint, expr)
}

// Bytes returns a slog.Attr for a byte count.
func Bytes(n int64) slog.Attr {
	return slog.Int64(KeyBytes, n)
}

// Chunks returns a slog.Attr for a chunk count.
func Chunks(n int) slog.Attr {
	return slog.Int(KeyChunks, n)
}

// DurationMs returns a slog.Attr for an operation duration in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}
