package handlers

import (
	"net/http"
	"time"

	"github.com/opendap-go/dapserve/internal/dapcore"
	"github.com/opendap-go/dapserve/pkg/api"
)

// writeJSON writes an api.Response as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, resp api.Response) {
	api.JSON(w, status, resp)
}

// healthyResponse builds a healthy api.Response carrying data.
func healthyResponse(data interface{}) api.Response {
	return api.HealthyResponse(data)
}

// unhealthyResponse builds an unhealthy api.Response from a message.
func unhealthyResponse(msg string) api.Response {
	return api.UnhealthyResponse(msg)
}

// unhealthyResponseWithData builds an unhealthy api.Response that still
// carries a data payload alongside the failure.
func unhealthyResponseWithData(data interface{}) api.Response {
	return api.Response{
		Status:    "unhealthy",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, api.ErrorResponse(msg))
}

// DAPError writes an error response tagged with the dapcore.Code the
// failure classified as, at the given HTTP status.
func DAPError(w http.ResponseWriter, status int, code dapcore.Code, msg string) {
	writeJSON(w, status, api.DAPErrorResponse(code, msg))
}
