// Package common provides shared types used across the SLayer packages.
package common

import (
	"net/http"
)

// Middleware is a function that wraps an http.Handler.
// It is the native middleware shape of net/http, chi and otelhttp, and is
// what the nethttp adapter turns into a uniform Layer.
type Middleware func(http.Handler) http.Handler
