// Package logging holds the logger shared by the library packages.
package logging

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var current atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	current.Store(&nop)
}

// L returns the library logger. It discards everything until Set is called.
func L() *zerolog.Logger {
	return current.Load()
}

// Set replaces the library logger.
func Set(l zerolog.Logger) {
	current.Store(&l)
}
