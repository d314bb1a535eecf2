package engine

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/caldew/redline/internal/platform"
)

var errUnsafePath = errors.New("archive entry escapes target directory")

// extractGroup collapses concurrent first-time extractions across every
// client in the process. The extraction target is a shared cache directory,
// and the existence-check-then-extract sequence is not atomic on its own.
var extractGroup singleflight.Group

// extract unpacks the bundled archive for the client's platform into the
// target directory and returns the binary path.
func (c *Client) extract() (string, error) {
	name := platform.BinaryName(c.goos)
	full := filepath.Join(c.targetDir, name)

	v, err, _ := extractGroup.Do(full, func() (any, error) {
		if err := os.MkdirAll(c.targetDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating target directory: %w", err)
		}

		// Already extracted by an earlier client.
		if _, err := os.Stat(full); err == nil {
			return full, nil
		}

		archive, err := platform.ArchiveName(c.goos, c.arch, Version)
		if err != nil {
			return nil, err
		}
		src := filepath.Join(c.archiveDir, archive)

		if c.logger != nil {
			c.logger.Info("extracting engine binary", "archive", src, "target", c.targetDir)
		}
		if err := extractArchive(src, c.targetDir); err != nil {
			return nil, fmt.Errorf("extracting %s: %w", src, err)
		}
		if err := os.Chmod(full, 0o755); err != nil {
			return nil, fmt.Errorf("marking binary executable: %w", err)
		}

		c.mu.Lock()
		c.extractions++
		c.mu.Unlock()
		return full, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// extractArchive unpacks a .zip or .tar.gz archive into target.
func extractArchive(path, target string) error {
	switch {
	case strings.HasSuffix(path, ".zip"):
		return extractZip(path, target)
	case strings.HasSuffix(path, ".tar.gz"):
		return extractTarGz(path, target)
	default:
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(path))
	}
}

func extractZip(path, target string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		dest, err := safeJoin(target, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeFile(dest, rc, f.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func extractTarGz(path, target string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		dest, err := safeJoin(target, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			if err := writeFile(dest, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		}
	}
}

func writeFile(dest string, r io.Reader, mode os.FileMode) error {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// safeJoin guards against archive entries escaping the target directory.
func safeJoin(target, name string) (string, error) {
	dest := filepath.Join(target, name)
	if !strings.HasPrefix(dest, filepath.Clean(target)+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", errUnsafePath, name)
	}
	return dest, nil
}
