// Package middleware provides the HTTP middleware chain for the catalog
// API: request logging and Prometheus instrumentation.
package middleware
