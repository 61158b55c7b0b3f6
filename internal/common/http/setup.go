package http

import (
	"net/http"

	"github.com/messagely/messagely/internal/common/constants"
	"github.com/messagely/messagely/internal/common/httpmetrics"
	"github.com/messagely/messagely/internal/common/logger"
)

// BuildBaseHandler layers the ambient middleware around the routed handler:
// security headers outermost, then panic recovery, trace IDs, body limits,
// and request metrics innermost.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware

	return securityHeaders(recovery(traceID(maxRequestSize(metrics.Wrap(handler)))))
}
