package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="profileImage"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["profileImage"][0]
}

func TestDisk_SaveImage(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		content     []byte
		wantName    string
		wantErr     error
	}{
		{
			name:        "declared image",
			filename:    "me.png",
			contentType: "image/png",
			content:     pngHeader,
			wantName:    "1700000000000-me.png",
		},
		{
			name:     "sniffed image without declared type",
			filename: "avatar",
			content:  pngHeader,
			wantName: "1700000000000-avatar",
		},
		{
			name:        "declared non image",
			filename:    "notes.txt",
			contentType: "text/plain",
			content:     []byte("hello"),
			wantErr:     ErrNotImage,
		},
		{
			name:     "sniffed non image",
			filename: "notes",
			content:  []byte("plain words"),
			wantErr:  ErrNotImage,
		},
		{
			name:        "path components are stripped",
			filename:    `..\..\evil photo.png`,
			contentType: "image/png",
			content:     pngHeader,
			wantName:    "1700000000000-evil-photo.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disk, err := NewDisk(t.TempDir())
			require.NoError(t, err)
			disk.now = func() time.Time { return time.UnixMilli(1700000000000) }

			name, err := disk.SaveImage(fileHeader(t, tt.filename, tt.contentType, tt.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				entries, _ := os.ReadDir(disk.Dir())
				assert.Empty(t, entries)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			stored, err := os.ReadFile(filepath.Join(disk.Dir(), name))
			require.NoError(t, err)
			assert.Equal(t, tt.content, stored)
		})
	}
}

func TestDisk_Remove(t *testing.T) {
	root := t.TempDir()
	disk, err := NewDisk(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	stored := filepath.Join(disk.Dir(), "1-old.png")
	require.NoError(t, os.WriteFile(stored, pngHeader, 0o644))
	outside := filepath.Join(root, "keep.png")
	require.NoError(t, os.WriteFile(outside, pngHeader, 0o644))

	require.NoError(t, disk.Remove("1-old.png"))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	// already gone, urls and paths are ignored
	for _, name := range []string{"1-old.png", "", ".", "..", "../keep.png", `..\keep.png`, "http://h/uploads/../keep.png"} {
		assert.NoError(t, disk.Remove(name), name)
	}
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://shop.example/uploads/1-a.png", PublicURL("https://shop.example/", "1-a.png"))
}
