package service

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxUploadBytes is the intake size ceiling when none is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// storedNamePrefix starts every stored upload name.
const storedNamePrefix = "paper-"

// allowedTypes maps an accepted file extension to the declared MIME types it may arrive with.
var allowedTypes = map[string][]string{
	".pdf":  {"application/pdf"},
	".jpg":  {"image/jpeg", "image/jpg"},
	".jpeg": {"image/jpeg", "image/jpg"},
	".png":  {"image/png"},
}

// ValidateFileType checks that both the extension of filename and the declared
// content type are allowed and that they describe the same kind of file.
// It returns the normalized (lowercase) extension.
func ValidateFileType(filename, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	accepted, ok := allowedTypes[ext]
	if !ok {
		return "", ErrInvalidFileType
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", ErrInvalidFileType
	}
	mediaType = strings.ToLower(mediaType)
	for _, a := range accepted {
		if a == mediaType {
			return ext, nil
		}
	}
	return "", ErrInvalidFileType
}

// NewStoredFilename returns a collision-resistant name for a stored upload.
// ext must include the leading dot.
func NewStoredFilename(ext string) string {
	return storedNamePrefix + uuid.NewString() + ext
}

// capReader passes through at most limit bytes and fails with ErrFileTooLarge
// as soon as the source yields more.
type capReader struct {
	r        io.Reader
	remain   int64
	exceeded bool
}

func newCapReader(r io.Reader, limit int64) *capReader {
	return &capReader{r: r, remain: limit}
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.exceeded {
		return 0, ErrFileTooLarge
	}
	if c.remain <= 0 {
		// Probe for one more byte to tell EOF from overflow.
		var one [1]byte
		n, err := c.r.Read(one[:])
		if n > 0 {
			c.exceeded = true
			return 0, ErrFileTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > c.remain {
		p = p[:c.remain]
	}
	n, err := c.r.Read(p)
	c.remain -= int64(n)
	return n, err
}
