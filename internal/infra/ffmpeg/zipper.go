package ffmpeg

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// ZipCreator bundles exported evidence frames into a single archive.
// Entries are written in sorted order under their base names with
// fixed attributes, so the same frame set always produces the same
// bundle bytes.
type ZipCreator struct{}

func NewZipCreator() *ZipCreator {
	return &ZipCreator{}
}

func (z *ZipCreator) CreateZip(ctx context.Context, filePaths []string, outputPath string) error {
	paths := append([]string(nil), filePaths...)
	sort.Strings(paths)

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return err
		}
		if err := addEntry(zw, p); err != nil {
			zw.Close()
			return fmt.Errorf("add %s: %w", filepath.Base(p), err)
		}
	}
	// an unflushed central directory means a truncated, unreadable zip
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}
	return nil
}

func addEntry(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   filepath.Base(path),
		Method: zip.Deflate,
	})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
