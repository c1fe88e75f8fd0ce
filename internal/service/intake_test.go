package service

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFileType(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		wantExt     string
		wantErr     bool
	}{
		{name: "pdf", filename: "midterm.pdf", contentType: "application/pdf", wantExt: ".pdf"},
		{name: "uppercase extension", filename: "SCAN.PDF", contentType: "application/pdf", wantExt: ".pdf"},
		{name: "jpeg", filename: "page.jpeg", contentType: "image/jpeg", wantExt: ".jpeg"},
		{name: "jpg with legacy mime", filename: "page.jpg", contentType: "image/jpg", wantExt: ".jpg"},
		{name: "png", filename: "page.png", contentType: "image/png", wantExt: ".png"},
		{name: "mime parameters ignored", filename: "a.pdf", contentType: "application/pdf; name=a.pdf", wantExt: ".pdf"},
		{name: "mime case ignored", filename: "a.png", contentType: "IMAGE/PNG", wantExt: ".png"},
		{name: "plain text", filename: "notes.txt", contentType: "text/plain", wantErr: true},
		{name: "allowed ext with text mime", filename: "notes.pdf", contentType: "text/plain", wantErr: true},
		{name: "allowed mime with bad ext", filename: "notes.txt", contentType: "application/pdf", wantErr: true},
		{name: "pdf ext with png mime", filename: "a.pdf", contentType: "image/png", wantErr: true},
		{name: "png ext with jpeg mime", filename: "a.png", contentType: "image/jpeg", wantErr: true},
		{name: "no extension", filename: "README", contentType: "application/pdf", wantErr: true},
		{name: "empty mime", filename: "a.pdf", contentType: "", wantErr: true},
		{name: "executable disguised", filename: "a.pdf.exe", contentType: "application/pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := ValidateFileType(tt.filename, tt.contentType)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFileType)
				assert.Empty(t, ext)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestNewStoredFilename(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		name := NewStoredFilename(".pdf")
		assert.True(t, strings.HasPrefix(name, "paper-"))
		assert.True(t, strings.HasSuffix(name, ".pdf"))
		_, dup := seen[name]
		require.False(t, dup, "duplicate stored filename %s", name)
		seen[name] = struct{}{}
	}
}

func TestCapReader(t *testing.T) {
	t.Run("under limit", func(t *testing.T) {
		r := newCapReader(strings.NewReader("hello"), 10)
		b, err := io.ReadAll(r)
		assert.NoError(t, err)
		assert.Equal(t, "hello", string(b))
		assert.False(t, r.exceeded)
	})

	t.Run("exactly at limit", func(t *testing.T) {
		r := newCapReader(strings.NewReader("hello"), 5)
		b, err := io.ReadAll(r)
		assert.NoError(t, err)
		assert.Equal(t, "hello", string(b))
		assert.False(t, r.exceeded)
	})

	t.Run("over limit", func(t *testing.T) {
		r := newCapReader(strings.NewReader("hello world"), 5)
		_, err := io.ReadAll(r)
		assert.True(t, errors.Is(err, ErrFileTooLarge))
		assert.True(t, r.exceeded)

		_, err = r.Read(make([]byte, 4))
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})
}
