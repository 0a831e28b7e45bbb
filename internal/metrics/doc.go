// Package metrics defines the Prometheus collectors exposed by the brush
// vault service: HTTP traffic, preview extraction, library scanning, and
// scan index activity.
//
// All collectors are registered via promauto at package load and served
// from the dedicated metrics port.
package metrics
