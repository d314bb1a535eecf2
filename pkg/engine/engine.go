// Package engine locates and invokes the external redline computation
// binary. The engine is an opaque tool: this package is responsible only for
// resolving the right binary for the platform, running it safely under a
// hard timeout, and guaranteeing temporary-file cleanup.
package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/caldew/redline/internal/platform"
)

const (
	// Version must match the version of the bundled engine archives.
	Version = "0.0.4"

	// DefaultTimeout is the hard wall-clock limit for one engine run.
	DefaultTimeout = 60 * time.Second

	// DefaultLayerDir is the runtime-provided binary location (e.g. a
	// mounted Lambda layer), checked after the local bin directory.
	DefaultLayerDir = "/opt/binaries"
)

// Client resolves and invokes the external redline engine.
type Client struct {
	binDir     string // pre-extracted binaries
	layerDir   string // runtime-provided binaries
	archiveDir string // bundled platform archives
	targetDir  string // extraction target, defaults to binDir
	tempDir    string
	timeout    time.Duration
	goos       string
	arch       string
	logger     *slog.Logger

	mu          sync.Mutex
	binaryPath  string
	extractions int
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithBinDir overrides the pre-extracted binary directory.
func WithBinDir(dir string) Option {
	return func(c *Client) { c.binDir = dir }
}

// WithLayerDir overrides the runtime-provided binary directory.
// An empty string disables the layer check.
func WithLayerDir(dir string) Option {
	return func(c *Client) { c.layerDir = dir }
}

// WithArchiveDir overrides the bundled archive directory.
func WithArchiveDir(dir string) Option {
	return func(c *Client) { c.archiveDir = dir }
}

// WithTargetDir overrides the archive extraction target directory.
func WithTargetDir(dir string) Option {
	return func(c *Client) { c.targetDir = dir }
}

// WithTempDir overrides where per-run temporary files are created.
func WithTempDir(dir string) Option {
	return func(c *Client) { c.tempDir = dir }
}

// WithTimeout overrides the engine run timeout. Intended for tests; callers
// should rely on DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithPlatform overrides the detected OS and architecture. Intended for
// tests exercising foreign archive layouts.
func WithPlatform(goos, arch string) Option {
	return func(c *Client) { c.goos = goos; c.arch = arch }
}

// New builds a client and resolves the engine binary immediately, so an
// unsupported platform or a missing archive fails at startup rather than on
// the first run.
func New(opts ...Option) (*Client, error) {
	base := defaultBaseDir()
	c := &Client{
		binDir:     filepath.Join(base, "bin"),
		layerDir:   DefaultLayerDir,
		archiveDir: filepath.Join(base, "binaries"),
		tempDir:    os.TempDir(),
		timeout:    DefaultTimeout,
		goos:       runtime.GOOS,
		arch:       runtime.GOARCH,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.targetDir == "" {
		c.targetDir = c.binDir
	}

	path, err := c.resolve()
	if err != nil {
		return nil, fmt.Errorf("resolving redline engine binary: %w", err)
	}
	c.binaryPath = path
	return c, nil
}

// BinaryPath returns the resolved engine binary path.
func (c *Client) BinaryPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.binaryPath
}

// resolve finds the engine binary, in order: the pre-extracted bin
// directory, the runtime layer directory, then extraction from a bundled
// archive.
func (c *Client) resolve() (string, error) {
	name := platform.BinaryName(c.goos)

	direct := filepath.Join(c.binDir, name)
	if info, err := os.Stat(direct); err == nil && c.executable(info) {
		if c.logger != nil {
			c.logger.Info("using pre-extracted engine binary", "path", direct)
		}
		return direct, nil
	}

	if c.layerDir != "" {
		if _, err := os.Stat(c.layerDir); err == nil {
			full := filepath.Join(c.layerDir, name)
			if _, err := os.Stat(full); err == nil {
				if c.logger != nil {
					c.logger.Info("using layer engine binary", "path", full)
				}
				return full, nil
			}
		}
	}

	return c.extract()
}

func (c *Client) executable(info os.FileInfo) bool {
	if c.goos == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

func defaultBaseDir() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	return "."
}
