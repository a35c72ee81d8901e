// Package route defines the route table type of the status server.
package route

import (
	"net/http"
)

// Route models a route to be set on the status server.
type Route struct {
	Name        string
	Description string
	Method      string
	Pattern     string
	// Version prefixes Pattern with /v<Version> when non-zero.
	Version     int
	HandlerFunc http.HandlerFunc
}

// Routes is a table of many Route's
type Routes []Route
