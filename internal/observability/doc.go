// Package observability owns process metrics and the admin HTTP middleware.
//
// Ownership boundary:
// - prometheus collectors for decode, keypad, peer link and queue events
//
// - gin request logging and request metrics
//
// Logger setup lives in internal/logging.
package observability
