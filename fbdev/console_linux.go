//go:build linux

package fbdev

import (
	"errors"
	"fmt"

	"github.com/phanxgames/planes"
	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h.
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A
)

var consolePaths = []string{"/dev/tty", "/dev/tty0"}

// SetGraphicsMode switches the active console to graphics mode so the text
// console and its cursor stop drawing over the planes.
func SetGraphicsMode() error {
	return setConsoleMode(kdGraphics, "KD_GRAPHICS")
}

// RestoreTextMode returns the active console to text mode.
func RestoreTextMode() error {
	return setConsoleMode(kdText, "KD_TEXT")
}

func setConsoleMode(mode int, label string) error {
	var errs []error
	for _, path := range consolePaths {
		fd, err := unix.Open(path, unix.O_RDONLY, 0)
		if err != nil {
			errs = append(errs, fmt.Errorf("open %s: %w", path, err))
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		unix.Close(fd)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s on %s: %w", label, path, err))
			continue
		}
		planes.Logger().Debug("console mode set", "mode", label, "path", path)
		return nil
	}
	return fmt.Errorf("fbdev: %w", errors.Join(errs...))
}
