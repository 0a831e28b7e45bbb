// Package handlers implements the catalog HTTP API: catalog listing,
// thumbnail rendering, rescan triggering, and health endpoints.
package handlers
