package server

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafeArchivePath is returned when a zip entry would escape the
// extraction root.
var ErrUnsafeArchivePath = errors.New("archive entry escapes extraction root")

// dirPerm is the permission mode for extracted directories.
const dirPerm = 0o755

// extractZip unpacks the archive at archivePath into destDir. Entry paths
// are validated against zip-slip before any write.
func extractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("open archive: %w", err)
	}
	// ErrInsecurePath still yields a usable reader; safeJoin rejects the
	// offending entries below.
	defer reader.Close()

	err = os.MkdirAll(destDir, dirPerm)
	if err != nil {
		return fmt.Errorf("create extraction root: %w", err)
	}

	for _, entry := range reader.File {
		err = extractEntry(entry, destDir)
		if err != nil {
			return err
		}
	}

	return nil
}

func extractEntry(entry *zip.File, destDir string) error {
	target, err := safeJoin(destDir, entry.Name)
	if err != nil {
		return err
	}

	if entry.FileInfo().IsDir() {
		err = os.MkdirAll(target, dirPerm)
		if err != nil {
			return fmt.Errorf("create directory %s: %w", entry.Name, err)
		}

		return nil
	}

	err = os.MkdirAll(filepath.Dir(target), dirPerm)
	if err != nil {
		return fmt.Errorf("create parent of %s: %w", entry.Name, err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entry.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", entry.Name, err)
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	if err != nil {
		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}

	return nil
}

// safeJoin joins name under root and rejects paths that resolve outside it.
func safeJoin(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeArchivePath, name)
	}

	return target, nil
}
