// Package upload turns a user-provided file into a document the question
// generator can read.
package upload

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrTooLarge        = errors.New("upload exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrMalformed       = errors.New("malformed data URL")
)

// Source describes an uploaded file before processing. LastModified is in
// Unix milliseconds.
type Source struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	DataURL      string `json:"dataUrl"`
	LastModified int64  `json:"lastModified"`
}

// Limits bound what Decode accepts.
type Limits struct {
	MaxBytes     int64
	AllowedTypes []string
}

// DefaultMaxBytes is the default upload ceiling.
const DefaultMaxBytes = 10 << 20

// DefaultLimits accepts PDFs and plain text or markdown up to 10 MiB.
func DefaultLimits() Limits {
	return Limits{
		MaxBytes:     DefaultMaxBytes,
		AllowedTypes: []string{"application/pdf", "text/plain", "text/markdown"},
	}
}

// Document is a decoded upload.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// IsText reports whether the document is plain text.
func (d *Document) IsText() bool {
	return strings.HasPrefix(d.MIMEType, "text/")
}

// Fingerprint is a short content hash, stable across uploads of the same file.
func (d *Document) Fingerprint() string {
	sum := sha256.Sum256(d.Data)
	return hex.EncodeToString(sum[:])[:12]
}

// Decode validates src against lim and decodes its data URL.
func Decode(src Source, lim Limits) (*Document, error) {
	if lim.MaxBytes > 0 && src.Size > lim.MaxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, src.Name, src.Size, lim.MaxBytes)
	}

	rest, ok := strings.CutPrefix(src.DataURL, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: missing data: prefix", ErrMalformed)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload", ErrMalformed)
	}

	params := strings.Split(header, ";")
	mimeType := strings.ToLower(strings.TrimSpace(params[0]))
	if mimeType == "" {
		mimeType = "text/plain"
	}
	isBase64 := params[len(params)-1] == "base64"

	if len(lim.AllowedTypes) > 0 && !slices.Contains(lim.AllowedTypes, mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	var data []byte
	if isBase64 {
		var err error
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		data = []byte(s)
	}
	if lim.MaxBytes > 0 && int64(len(data)) > lim.MaxBytes {
		return nil, fmt.Errorf("%w: %s decodes to %d bytes, limit %d", ErrTooLarge, src.Name, len(data), lim.MaxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrMalformed)
	}

	return &Document{Name: src.Name, MIMEType: mimeType, Data: data}, nil
}

// FromFile reads a local file into a Source the way a browser would
// describe an upload.
func FromFile(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, err
	}
	return Source{
		Name:         filepath.Base(path),
		Size:         info.Size(),
		DataURL:      EncodeDataURL(DetectType(path, data), data),
		LastModified: info.ModTime().UnixMilli(),
	}, nil
}

// EncodeDataURL builds a base64 data URL.
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DetectType guesses a MIME type from the file extension, then the content.
// Parameters such as charset are stripped.
func DetectType(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	}
	t := mime.TypeByExtension(filepath.Ext(name))
	if t == "" {
		t = http.DetectContentType(data)
	}
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}
