package platform

import (
	"errors"
	"testing"
)

func TestNormalizeArch(t *testing.T) {
	t.Run("Known Aliases Collapse", func(t *testing.T) {
		cases := map[string]string{
			"x86_64":  "x64",
			"amd64":   "x64",
			"x64":     "x64",
			"arm64":   "arm64",
			"aarch64": "arm64",
		}
		for in, want := range cases {
			got, err := NormalizeArch(in)
			if err != nil {
				t.Fatalf("NormalizeArch(%q) failed: %v", in, err)
			}
			if got != want {
				t.Errorf("NormalizeArch(%q) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("Unknown Architecture Fails", func(t *testing.T) {
		_, err := NormalizeArch("riscv64")
		if !errors.Is(err, ErrUnsupportedArch) {
			t.Errorf("Expected ErrUnsupportedArch, got %v", err)
		}
	})
}

func TestArchiveName(t *testing.T) {
	cases := []struct {
		goos, arch, want string
	}{
		{"linux", "amd64", "linux-x64-0.0.4.tar.gz"},
		{"linux", "aarch64", "linux-arm64-0.0.4.tar.gz"},
		{"darwin", "arm64", "osx-arm64-0.0.4.tar.gz"},
		{"windows", "x86_64", "win-x64-0.0.4.zip"},
	}

	for _, c := range cases {
		got, err := ArchiveName(c.goos, c.arch, "0.0.4")
		if err != nil {
			t.Fatalf("ArchiveName(%s, %s) failed: %v", c.goos, c.arch, err)
		}
		if got != c.want {
			t.Errorf("ArchiveName(%s, %s) = %q, want %q", c.goos, c.arch, got, c.want)
		}
	}

	t.Run("Unsupported OS Fails", func(t *testing.T) {
		_, err := ArchiveName("plan9", "amd64", "0.0.4")
		if !errors.Is(err, ErrUnsupportedOS) {
			t.Errorf("Expected ErrUnsupportedOS, got %v", err)
		}
	})

	t.Run("Arch Error Takes Precedence", func(t *testing.T) {
		_, err := ArchiveName("plan9", "mips", "0.0.4")
		if !errors.Is(err, ErrUnsupportedArch) {
			t.Errorf("Expected ErrUnsupportedArch, got %v", err)
		}
	})

	t.Run("Binary Name Per OS", func(t *testing.T) {
		if got := BinaryName("windows"); got != "redline-engine.exe" {
			t.Errorf("BinaryName(windows) = %q", got)
		}
		if got := BinaryName("linux"); got != "redline-engine" {
			t.Errorf("BinaryName(linux) = %q", got)
		}
	})
}
