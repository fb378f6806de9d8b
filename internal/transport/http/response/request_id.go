package response

import (
	"net/http"

	appctx "github.com/ecomm-platform/auth-gateway/internal/pkg/context"
)

// RequestIDFromContext extracts the request id set by the request-id middleware.
func RequestIDFromContext(r *http.Request) string {
	return appctx.GetRequestID(r.Context())
}
