package middleware

import (
	"context"
	"net/http"

	"github.com/pborman/uuid"
	log "github.com/sirupsen/logrus"
)

type ctxKey string

const (
	reqIDKey     ctxKey = "reqid"
	reqLoggerKey ctxKey = "reqlogger"
)

// ReqIDGenerator is a middleware which generates a UUID for each incoming
// HTTP request and sets this UUID as a header in request and in response.
func ReqIDGenerator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewRandom().String()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), reqIDKey, reqID)
		ctx = context.WithValue(ctx, reqLoggerKey, log.WithField("reqid", reqID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetReqID returns the request ID set by ReqIDGenerator, or "".
func GetReqID(ctx context.Context) string {
	id, _ := ctx.Value(reqIDKey).(string)
	return id
}

// GetReqLogger returns the request-scoped logger, falling back to the
// standard logger.
func GetReqLogger(ctx context.Context) *log.Entry {
	if l, ok := ctx.Value(reqLoggerKey).(*log.Entry); ok {
		return l
	}
	return log.NewEntry(log.StandardLogger())
}
