// Package platform maps the host OS and architecture onto the naming scheme
// used by the bundled redline engine archives.
package platform

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnsupportedOS   = errors.New("unsupported operating system")
	ErrUnsupportedArch = errors.New("unsupported architecture")
)

// NormalizeArch collapses the architecture aliases reported by different
// runtimes into the two names the archive set is published under.
func NormalizeArch(arch string) (string, error) {
	switch arch {
	case "x86_64", "amd64", "x64":
		return "x64", nil
	case "arm64", "aarch64":
		return "arm64", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedArch, arch)
	}
}

// ArchiveName returns the file name of the engine archive for the given
// OS/arch pair and engine version. Linux and macOS binaries ship as gzipped
// tarballs, Windows binaries as zip files.
func ArchiveName(goos, arch, version string) (string, error) {
	normArch, err := NormalizeArch(arch)
	if err != nil {
		return "", err
	}

	switch goos {
	case "linux":
		return fmt.Sprintf("linux-%s-%s.tar.gz", normArch, version), nil
	case "darwin":
		return fmt.Sprintf("osx-%s-%s.tar.gz", normArch, version), nil
	case "windows":
		return fmt.Sprintf("win-%s-%s.zip", normArch, version), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
	}
}

// BinaryName returns the engine executable name for the given OS.
func BinaryName(goos string) string {
	if goos == "windows" {
		return "redline-engine.exe"
	}
	return "redline-engine"
}
