// Package mapping stores user key mappings and tracks a sequence of keys
// that may still turn into one.
//
// Table is the shared, per-mode store written by :map style commands,
// config files and plugins. State is the per-context scanner state: the
// keys held back while they are a prefix of some mapping, and the timeout
// that releases them. Timeouts go through a Scheduler so that they fire on
// the goroutine owning the context; ManualScheduler drives them from a
// fake clock in tests.
package mapping
