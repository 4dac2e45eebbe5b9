package backlight

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// defaultSysfsRoot is the kernel backlight class directory.
const defaultSysfsRoot = "/sys/class/backlight"

// sysfsDevice is one entry under the backlight class root.
type sysfsDevice struct {
	root string
	name string
}

// firstBacklightDevice returns the first device under root, matching the
// behavior of picking whatever the kernel enumerates first.
func firstBacklightDevice(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("no backlight devices found")
	}
	return entries[0].Name(), nil
}

func (d sysfsDevice) brightnessPath() string {
	return filepath.Join(d.root, d.name, "brightness")
}

func (d sysfsDevice) readBrightness() (int, error) {
	return readIntFile(d.brightnessPath())
}

func (d sysfsDevice) readMaxBrightness() (int, error) {
	return readIntFile(filepath.Join(d.root, d.name, "max_brightness"))
}

// modTime returns the brightness attribute's modification time. The watcher
// polls this to catch changes made outside the daemon, e.g. hotkeys.
func (d sysfsDevice) modTime() (time.Time, error) {
	fi, err := os.Stat(d.brightnessPath())
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

func readIntFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}
