// Package terminal holds the bits of terminal handling tcell leaves to the
// application: color capability detection and restoring a sane tty after a crash.
package terminal
