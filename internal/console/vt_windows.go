//go:build windows

package console

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// EnableVT turns on ANSI escape processing for the attached console.
func EnableVT() error {
	h := windows.Handle(os.Stdout.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return errors.Wrap(err, "get console mode")
	}
	mode |= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
	return errors.Wrap(windows.SetConsoleMode(h, mode), "set console mode")
}
