package upload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDecode_Base64PDF(t *testing.T) {
	src := Source{Name: "notes.pdf", Size: 8, DataURL: EncodeDataURL("application/pdf", []byte("%PDF-1.4"))}
	doc, err := Decode(src, DefaultLimits())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.MIMEType != "application/pdf" || string(doc.Data) != "%PDF-1.4" || doc.IsText() {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.Fingerprint()) != 12 {
		t.Errorf("fingerprint = %q", doc.Fingerprint())
	}
}

func TestDecode_PercentEncodedText(t *testing.T) {
	doc, err := Decode(Source{Name: "a.txt", DataURL: "data:text/plain,Cells%20divide"}, DefaultLimits())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(doc.Data) != "Cells divide" || !doc.IsText() {
		t.Errorf("doc = %+v", doc)
	}
}

func TestDecode_Rejections(t *testing.T) {
	small := Limits{MaxBytes: 4, AllowedTypes: []string{"text/plain"}}
	tests := []struct {
		name string
		src  Source
		lim  Limits
		want error
	}{
		{"declared too large", Source{Size: 100, DataURL: "data:text/plain,x"}, small, ErrTooLarge},
		{"decoded too large", Source{DataURL: "data:text/plain,abcdef"}, small, ErrTooLarge},
		{"wrong type", Source{DataURL: EncodeDataURL("image/png", []byte{1})}, DefaultLimits(), ErrUnsupportedType},
		{"no prefix", Source{DataURL: "text/plain,abc"}, DefaultLimits(), ErrMalformed},
		{"no payload", Source{DataURL: "data:text/plain"}, DefaultLimits(), ErrMalformed},
		{"bad base64", Source{DataURL: "data:text/plain;base64,@@@"}, DefaultLimits(), ErrMalformed},
		{"empty", Source{DataURL: "data:text/plain,"}, DefaultLimits(), ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.src, tt.lim)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chapter1.md")
	if err := os.WriteFile(path, []byte("# Photosynthesis"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if src.Name != "chapter1.md" || src.Size != 16 || src.LastModified == 0 {
		t.Errorf("src = %+v", src)
	}
	doc, err := Decode(src, DefaultLimits())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.MIMEType != "text/markdown" || string(doc.Data) != "# Photosynthesis" {
		t.Errorf("doc = %+v", doc)
	}

	if _, err := FromFile(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDetectType(t *testing.T) {
	tests := map[string]string{
		"a.pdf":  "application/pdf",
		"b.TXT":  "text/plain",
		"c.md":   "text/markdown",
		"d.bin0": "text/plain",
	}
	for name, want := range tests {
		if got := DetectType(name, []byte("hello")); got != want {
			t.Errorf("DetectType(%q) = %q, want %q", name, got, want)
		}
	}
}
