// Package events defines the typed event values emitted by a session's
// router and its upstream links.
//
// Events are plain values implementing [Event]; they are delivered through
// the router's configured callbacks, never through a process-wide emitter.
// Each concern groups its kinds and payloads in its own file.
package events
