// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive bundles converted notebooks into zip and gzip-tar
// packages. Entry order follows the input order and entry timestamps are
// pinned, so identical notebook sets produce identical archive bytes.
// See docs/ARCHITECTURE § Packaging.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// entryTime is the fixed timestamp stamped on every archive entry.
// Archive freshness is tracked by the archive file's own mtime, not by
// entry metadata, and pinning it keeps rebuilds byte-reproducible.
var entryTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Zip writes the given notebooks into a zip archive at archivePath.
// Entries are the notebook basenames, in input order. Any missing input is
// an error and no archive is written.
func Zip(notebooks []string, archivePath string) error {
	return writeArchive(notebooks, archivePath, func(out *os.File) (entryWriter, io.Closer) {
		zw := zip.NewWriter(out)
		add := func(name string, data []byte) error {
			w, err := zw.CreateHeader(&zip.FileHeader{
				Name:     name,
				Method:   zip.Deflate,
				Modified: entryTime,
			})
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		}
		return add, zw
	})
}

// TarGz writes the given notebooks into a gzip-compressed tar archive at
// archivePath, with the same entry rules as Zip.
func TarGz(notebooks []string, archivePath string) error {
	return writeArchive(notebooks, archivePath, func(out *os.File) (entryWriter, io.Closer) {
		gz := gzip.NewWriter(out)
		tw := tar.NewWriter(gz)
		add := func(name string, data []byte) error {
			hdr := &tar.Header{
				Name:    name,
				Mode:    0o644,
				Size:    int64(len(data)),
				ModTime: entryTime,
			}
			if err := tw.WriteHeader(hdr); err != nil {
				return err
			}
			_, err := tw.Write(data)
			return err
		}
		return add, closerFunc(func() error {
			if err := tw.Close(); err != nil {
				gz.Close()
				return err
			}
			return gz.Close()
		})
	})
}

type entryWriter func(name string, data []byte) error

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// writeArchive reads every notebook up front, then streams them into the
// format-specific writer. Reading first means a missing input fails before
// a partial archive exists on disk.
func writeArchive(notebooks []string, archivePath string, open func(*os.File) (entryWriter, io.Closer)) error {
	contents := make([][]byte, len(notebooks))
	for i, nb := range notebooks {
		data, err := os.ReadFile(nb)
		if err != nil {
			return fmt.Errorf("reading notebook %s: %w", nb, err)
		}
		contents[i] = data
	}

	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	tmp := archivePath + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}

	add, closer := open(out)
	for i, nb := range notebooks {
		if err := add(filepath.Base(nb), contents[i]); err != nil {
			closer.Close()
			out.Close()
			os.Remove(tmp)
			return fmt.Errorf("archiving %s: %w", nb, err)
		}
	}

	if err := closer.Close(); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("finalizing %s: %w", archivePath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, archivePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", archivePath, err)
	}
	return nil
}
