// Package middleware holds the HTTP handler chain of the status server.
package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
	log "github.com/sirupsen/logrus"
)

// Recover will recover() from unexpected panics in the code and ensures
// that clients get a 500 error response. The stack is logged during panic.
func Recover(next http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.StandardLogger()),
		handlers.PrintRecoveryStack(true),
	)(next)
}
