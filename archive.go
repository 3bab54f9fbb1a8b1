package fsentry

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charlievieth/fastwalk"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// TarCompression selects the compressor for ArchiveTar.
type TarCompression string

const (
	TarNone TarCompression = "none"
	TarGzip TarCompression = "gzip"
	TarZstd TarCompression = "zstd"
)

// ArchiveZip packs the directory subtree into a ZIP archive at output
// and returns a handle on the archive.
func (e *Entry) ArchiveZip(output string) (*Entry, error) {
	if err := validatePath(output); err != nil {
		return nil, err
	}
	if !e.IsDirectory() {
		return nil, fmt.Errorf("%q: %w", e.path, ErrDirectoryNotFound)
	}
	root := e.FullPath()

	out, err := os.Create(output)
	if err != nil {
		return nil, wrapOSError(err, output, false)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = fastwalk.Walk(&fastwalk.Config{Follow: false}, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == root {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			_, err := zw.Create(rel + "/")
			return err
		}
		w, err := zw.Create(rel)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			log.Debug("zip: skipping unreadable file",
				zap.String("path", path), zap.Error(err))
			return nil
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return nil, fmt.Errorf("zip %q: %w", output, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip %q: %w", output, err)
	}
	return newEntry(output), nil
}

// ArchiveTar packs the directory subtree into a TAR archive at output,
// optionally compressed, and returns a handle on the archive.
func (e *Entry) ArchiveTar(output string, compression TarCompression) (*Entry, error) {
	if err := validatePath(output); err != nil {
		return nil, err
	}
	if !e.IsDirectory() {
		return nil, fmt.Errorf("%q: %w", e.path, ErrDirectoryNotFound)
	}
	root := e.FullPath()

	out, err := os.Create(output)
	if err != nil {
		return nil, wrapOSError(err, output, false)
	}
	defer out.Close()

	var tw *tar.Writer
	var closers []io.Closer
	switch compression {
	case TarGzip:
		gz := gzip.NewWriter(out)
		closers = append(closers, gz)
		tw = tar.NewWriter(gz)
	case TarZstd:
		zw, err := zstd.NewWriter(out)
		if err != nil {
			return nil, fmt.Errorf("tar %q: %w", output, err)
		}
		closers = append(closers, zw)
		tw = tar.NewWriter(zw)
	default:
		tw = tar.NewWriter(out)
	}

	err = fastwalk.Walk(&fastwalk.Config{Follow: false}, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == root {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(root, path)

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return nil
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err == nil {
		err = tw.Close()
	} else {
		tw.Close()
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if cerr := closers[i].Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return nil, fmt.Errorf("tar %q: %w", output, err)
	}
	return newEntry(output), nil
}

// Extract unpacks the archive file into destination, detecting the
// format from the file name: .zip, .tar, .tar.gz/.tgz, .tar.zst/.zst.
func (e *Entry) Extract(destination string) error {
	if err := validatePath(destination); err != nil {
		return err
	}
	if !e.IsFile() {
		return fmt.Errorf("%q: %w", e.path, ErrNotFound)
	}
	name := strings.ToLower(e.Name())
	switch {
	case strings.HasSuffix(name, ".zip"):
		return e.extractZip(destination)
	case strings.HasSuffix(name, ".tar"),
		strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"),
		strings.HasSuffix(name, ".tar.zst"), strings.HasSuffix(name, ".zst"):
		return e.extractTar(destination)
	default:
		return fmt.Errorf("%q: unrecognized archive format: %w", e.path, ErrNotSupported)
	}
}

func (e *Entry) extractZip(destination string) error {
	reader, err := zip.OpenReader(e.FullPath())
	if err != nil {
		return wrapOSError(err, e.path, false)
	}
	defer reader.Close()

	dest := filepath.Clean(destination)
	for _, file := range reader.File {
		destPath := filepath.Join(dest, file.Name)
		// Reject entries escaping the destination (zip-slip).
		if !strings.HasPrefix(destPath, dest+string(os.PathSeparator)) {
			continue
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return wrapOSError(err, destPath, true)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return wrapOSError(err, destPath, true)
		}
		src, err := file.Open()
		if err != nil {
			return fmt.Errorf("extract %q: %w", file.Name, err)
		}
		dst, err := os.Create(destPath)
		if err != nil {
			src.Close()
			return wrapOSError(err, destPath, false)
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return fmt.Errorf("extract %q: %w", file.Name, err)
		}
	}
	return nil
}

func (e *Entry) extractTar(destination string) error {
	f, err := os.Open(e.FullPath())
	if err != nil {
		return wrapOSError(err, e.path, false)
	}
	defer f.Close()

	var tr *tar.Reader
	name := strings.ToLower(e.Name())
	switch {
	case strings.HasSuffix(name, ".gz") || strings.HasSuffix(name, ".tgz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("extract %q: %w", e.path, err)
		}
		defer gz.Close()
		tr = tar.NewReader(gz)
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("extract %q: %w", e.path, err)
		}
		defer zr.Close()
		tr = tar.NewReader(zr)
	default:
		tr = tar.NewReader(f)
	}

	dest := filepath.Clean(destination)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("extract %q: %w", e.path, err)
		}
		destPath := filepath.Join(dest, header.Name)
		if !strings.HasPrefix(destPath, dest+string(os.PathSeparator)) {
			continue
		}
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return wrapOSError(err, destPath, true)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
				return wrapOSError(err, destPath, true)
			}
			out, err := os.Create(destPath)
			if err != nil {
				return wrapOSError(err, destPath, false)
			}
			_, err = io.Copy(out, tr)
			out.Close()
			if err != nil {
				return fmt.Errorf("extract %q: %w", header.Name, err)
			}
		}
	}
}
