package middleware

import (
	"net/http"
)

// Middleware is a function that wraps an http.Handler to provide additional
// functionality such as logging or instrumentation. It takes a handler and
// returns a new handler.
type Middleware func(http.Handler) http.Handler

// asMiddleware converts an http.Handler to a Middleware
func asMiddleware(h http.Handler) Middleware {
	return func(http.Handler) http.Handler {
		return h
	}
}

// Chain chains middlewares and handlers in the exact order specified.
// Each item wraps the next one, so execution flows from left to right.
func Chain(items ...any) http.Handler {
	middlewares := make([]Middleware, 0, len(items))

	for _, item := range items {
		switch v := item.(type) {
		case Middleware:
			middlewares = append(middlewares, v)
		case func(http.Handler) http.Handler:
			middlewares = append(middlewares, v)
		case http.Handler:
			middlewares = append(middlewares, asMiddleware(v))
		default:
			panic("Chain accepts only Middleware or http.Handler")
		}
	}

	var result http.Handler = http.NotFoundHandler()

	// Apply middlewares from right to left to get left-to-right execution
	for i := len(middlewares) - 1; i >= 0; i-- {
		result = middlewares[i](result)
	}

	return result
}
