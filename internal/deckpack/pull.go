package deckpack

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abhisek/studyquiz/internal/deck"
	"github.com/abhisek/studyquiz/internal/quiz"
)

var (
	ErrAlreadyLatest = errors.New("deck pack is already up to date")
	ErrChecksum      = errors.New("checksum verification failed")
	ErrEmptyPack     = errors.New("deck pack contains no decks")
)

const (
	assetName     = "decks.tar.gz"
	versionFile   = "VERSION"
	maxDeckBytes  = 4 << 20
	maxArchiveLen = 64 << 20
)

type PullInput struct {
	// Dir is the local deck directory.
	Dir string

	// TargetVersion pins a release tag. Empty means latest.
	TargetVersion string

	// Force reinstalls even when the installed version is current.
	Force bool
}

type PullResult struct {
	Version string
	Decks   []string
}

type Progress struct {
	Stage   string
	Message string
}

// InstalledVersion reads the pack version recorded in dir.
func InstalledVersion(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, versionFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Pull downloads, verifies and installs a deck pack into input.Dir.
func (c *Checker) Pull(ctx context.Context, input *PullInput, progress func(Progress)) (*PullResult, error) {
	if progress == nil {
		progress = func(Progress) {}
	}

	tag := input.TargetVersion
	if tag == "" {
		progress(Progress{Stage: "check", Message: "Checking for the latest deck pack..."})
		installed := ""
		if !input.Force {
			installed = InstalledVersion(input.Dir)
		}
		result, err := c.Check(ctx, &CheckInput{Version: installed})
		if err != nil {
			return nil, &quiz.NetworkError{Op: "check deck pack", Err: err}
		}
		if !result.UpdateAvailable {
			return nil, ErrAlreadyLatest
		}
		tag = result.LatestVersion
	}

	base := strings.TrimRight(c.downloadBaseURL, "/")
	assetURL := fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", base, c.owner, c.repo, tag, assetName)
	checksumsURL := fmt.Sprintf("%s/%s/%s/releases/download/%s/checksums.txt", base, c.owner, c.repo, tag)

	progress(Progress{Stage: "download", Message: fmt.Sprintf("Downloading %s...", tag)})
	archive, err := c.downloadFile(ctx, assetURL)
	if err != nil {
		return nil, &quiz.NetworkError{Op: "download archive", Err: err}
	}

	progress(Progress{Stage: "verify", Message: "Verifying checksum..."})
	sums, err := c.downloadFile(ctx, checksumsURL)
	if err != nil {
		return nil, &quiz.NetworkError{Op: "download checksums", Err: err}
	}
	expected, ok := parseChecksums(sums)[assetName]
	if !ok {
		return nil, fmt.Errorf("no checksum found for %s in checksums.txt", assetName)
	}
	if err := verifyChecksum(archive, expected); err != nil {
		return nil, err
	}

	progress(Progress{Stage: "extract", Message: "Extracting decks..."})
	files, err := extractDecks(archive)
	if err != nil {
		return nil, fmt.Errorf("extract decks: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrEmptyPack
	}
	var ids []string
	for name, data := range files {
		d, err := deck.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ids = append(ids, d.ID)
	}
	sort.Strings(ids)

	progress(Progress{Stage: "apply", Message: "Installing decks..."})
	if err := install(input.Dir, files, tag); err != nil {
		return nil, fmt.Errorf("install decks: %w", err)
	}

	progress(Progress{Stage: "done", Message: fmt.Sprintf("Installed %d decks from %s", len(ids), tag)})
	return &PullResult{Version: tag, Decks: ids}, nil
}

func (c *Checker) downloadFile(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxArchiveLen))
}

func parseChecksums(data []byte) map[string]string {
	result := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.Fields(line)
		if len(parts) != 2 {
			continue
		}
		result[parts[1]] = parts[0]
	}
	return result
}

func verifyChecksum(data []byte, expectedHex string) error {
	h := sha256.Sum256(data)
	actual := hex.EncodeToString(h[:])
	if actual != expectedHex {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, expectedHex, actual)
	}
	return nil
}

// extractDecks returns the *.yaml regular files in a tar.gz, keyed by base
// name. Directory structure inside the archive is ignored.
func extractDecks(data []byte) (map[string][]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	files := make(map[string][]byte)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		name := path.Base(hdr.Name)
		ext := strings.ToLower(path.Ext(name))
		if hdr.Typeflag != tar.TypeReg || (ext != ".yaml" && ext != ".yml") || strings.HasPrefix(name, ".") {
			continue
		}
		if hdr.Size > maxDeckBytes {
			return nil, fmt.Errorf("%s exceeds %d bytes", name, maxDeckBytes)
		}
		body, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		files[name] = body
	}
	return files, nil
}

// install writes files into a staging dir next to dir, then swaps it in so
// readers never see a half-written pack.
func install(dir string, files map[string][]byte, version string) error {
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return err
	}
	staging, err := os.MkdirTemp(parent, ".studyquiz-decks-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()
	if err := os.Chmod(staging, 0o755); err != nil {
		return err
	}

	for name, data := range files {
		if err := os.WriteFile(filepath.Join(staging, name), data, 0o644); err != nil {
			return err
		}
	}
	if err := os.WriteFile(filepath.Join(staging, versionFile), []byte(version+"\n"), 0o644); err != nil {
		return err
	}

	backup := dir + ".old"
	_ = os.RemoveAll(backup)
	if _, err := os.Stat(dir); err == nil {
		if err := os.Rename(dir, backup); err != nil {
			return fmt.Errorf("move old decks: %w", err)
		}
	}
	if err := os.Rename(staging, dir); err != nil {
		_ = os.Rename(backup, dir)
		return fmt.Errorf("rename: %w", err)
	}
	_ = os.RemoveAll(backup)
	return nil
}
