// Package storage keeps uploaded files on local disk under the directory served at /uploads.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned when an upload is not an image.
var ErrNotImage = errors.New("only image files are allowed")

// PublicPrefix is the URL path the upload directory is served under.
const PublicPrefix = "/uploads/"

const sniffLen = 3072

// Disk stores files in a single flat directory.
type Disk struct {
	dir string
	now func() time.Time
}

// NewDisk creates the directory when missing.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir, now: time.Now}, nil
}

// Dir returns the directory files are written to.
func (d *Disk) Dir() string {
	return d.dir
}

// SaveImage writes an uploaded image as <unix-millis>-<basename> and returns the stored name.
// The declared content type decides when present; otherwise the content is sniffed.
func (d *Disk) SaveImage(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	if !IsImage(fh.Header.Get("Content-Type"), head) {
		return "", ErrNotImage
	}

	name := strconv.FormatInt(d.now().UnixMilli(), 10) + "-" + sanitizeName(fh.Filename)
	dst, err := os.OpenFile(filepath.Join(d.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), src)); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return name, nil
}

// Remove deletes a file previously returned by SaveImage. Names that are not plain file
// names and missing files are ignored.
func (d *Disk) Remove(name string) error {
	if !storedName(name) {
		return nil
	}
	err := os.Remove(filepath.Join(d.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// PublicURL joins a stored name onto base, e.g. https://shop.example/uploads/<name>.
func PublicURL(base, name string) string {
	return strings.TrimRight(base, "/") + PublicPrefix + name
}

func storedName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// IsImage reports whether an upload is an image, trusting a declared type when one is given.
func IsImage(declared string, head []byte) bool {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return strings.HasPrefix(strings.ToLower(declared), "image/")
	}
	return strings.HasPrefix(mimetype.Detect(head).String(), "image/")
}

func sanitizeName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '-'
		case r < 0x20 || r == '/' || r == ':':
			return -1
		}
		return r
	}, base)
	if base == "" || base == "." || base == ".." {
		return "upload"
	}
	return base
}
