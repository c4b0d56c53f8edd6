package ui

import (
	"io"

	"github.com/charmbracelet/log"
)

// discardLogger is used until a caller provides one.
func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
