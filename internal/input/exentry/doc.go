// Package exentry implements the command-line entry used by ':' and by
// the '/' and '?' searches, with a history per trigger.
package exentry
