// Package frontend adapts a display backend to the event model.
//
// Convert turns raw platform notifications into typed events; anything
// without a typed event becomes an UnknownEvent. A Frontend polls its
// backend once per frame and draws a View.
package frontend
