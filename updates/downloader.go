package updates

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ulikunitz/xz"

	"healthform/config"
)

const (
	// artifactTimeout bounds a full artifact download.
	artifactTimeout = 60 * time.Second

	// downloadChunkSize is the streaming buffer size; the artifact is
	// hashed incrementally and never fully buffered in memory.
	downloadChunkSize = 128 * 1024

	fallbackFileName = "update.bin"
)

// ErrIntegrityMismatch indicates the downloaded bytes did not hash to the
// digest declared in the manifest.
var ErrIntegrityMismatch = errors.New("artifact digest mismatch")

// IntegrityError carries the details of a digest mismatch. It wraps
// ErrIntegrityMismatch so callers can classify with errors.Is.
type IntegrityError struct {
	URL      string
	Expected string
	Got      string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("sha256 mismatch for %s: expected %s, got %s", e.URL, e.Expected, e.Got)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrityMismatch }

// Artifact is a downloaded release artifact. It lives in the per-app
// updates directory until the replacement engine takes ownership of it.
type Artifact struct {
	Path     string
	Digest   string
	Size     int64
	Verified bool
}

// Downloader streams release artifacts to disk with incremental
// integrity verification.
type Downloader struct {
	client    *http.Client
	userAgent string
	dir       string
}

// NewDownloader creates a Downloader that stages artifacts under the
// per-app subdirectory of the system temp root.
func NewDownloader(cfg config.Config) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: artifactTimeout,
		},
		userAgent: cfg.UserAgent(),
		dir:       filepath.Join(os.TempDir(), cfg.UpdatesDirName()),
	}
}

// Download streams the artifact at rawURL to the updates directory while
// hashing it, then compares the digest against expectedSHA256
// (case-insensitively). On mismatch the partial file is removed and an
// *IntegrityError is returned. An empty expectedSHA256 skips verification
// entirely; the returned Artifact is marked unverified and a warning is
// logged, since a manifest without digests is a known weak point.
func (d *Downloader) Download(ctx context.Context, rawURL, expectedSHA256 string) (*Artifact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w for %s", err, rawURL)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w for %s", err, rawURL)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d for %s", resp.StatusCode, rawURL)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create updates directory %s: %w", d.dir, err)
	}

	outPath := filepath.Join(d.dir, artifactFileName(rawURL, resp.Header.Get("Content-Disposition")))

	size, digest, err := streamAndHash(outPath, resp.Body)
	if err != nil {
		_ = os.Remove(outPath)
		return nil, fmt.Errorf("failed to save artifact to %s: %w", outPath, err)
	}

	if expectedSHA256 == "" {
		log.Warn("manifest carries no sha256 for artifact, skipping verification", "url", rawURL)
	} else if !strings.EqualFold(digest, expectedSHA256) {
		_ = os.Remove(outPath)
		return nil, &IntegrityError{URL: rawURL, Expected: strings.ToLower(expectedSHA256), Got: digest}
	}

	artifact := &Artifact{
		Path:     outPath,
		Digest:   digest,
		Size:     size,
		Verified: expectedSHA256 != "",
	}

	// Artifacts may be shipped xz-compressed; the manifest digest covers
	// the bytes as served, so decompression happens after verification.
	if strings.HasSuffix(outPath, ".xz") {
		if err := decompressArtifact(artifact); err != nil {
			_ = os.Remove(outPath)
			return nil, err
		}
	}

	log.Debug("artifact downloaded", "path", artifact.Path, "size", artifact.Size, "verified", artifact.Verified)
	return artifact, nil
}

// streamAndHash copies the body to path in fixed-size chunks, feeding the
// same bytes to a sha256 hasher, and returns the size and hex digest.
func streamAndHash(path string, body io.Reader) (int64, string, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create file: %w", err)
	}

	hasher := sha256.New()
	buf := make([]byte, downloadChunkSize)
	size, copyErr := io.CopyBuffer(io.MultiWriter(out, hasher), body, buf)

	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		return 0, "", copyErr
	}

	return size, hex.EncodeToString(hasher.Sum(nil)), nil
}

// artifactFileName derives the destination filename from the
// Content-Disposition header when present, falling back to the last URL
// path segment and then to a generic name.
func artifactFileName(rawURL, contentDisposition string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := filepath.Base(params["filename"]); name != "" && name != "." && name != string(filepath.Separator) {
				return name
			}
		}
	}

	if u, err := url.Parse(rawURL); err == nil {
		if name := path.Base(u.Path); name != "" && name != "." && name != "/" {
			return name
		}
	}

	return fallbackFileName
}

// decompressArtifact replaces an xz-compressed artifact with its
// decompressed form, dropping the .xz suffix.
func decompressArtifact(artifact *Artifact) error {
	in, err := os.Open(artifact.Path)
	if err != nil {
		return fmt.Errorf("failed to open artifact for decompression: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	xzReader, err := xz.NewReader(in)
	if err != nil {
		return fmt.Errorf("failed to create xz reader for %s: %w", artifact.Path, err)
	}

	outPath := strings.TrimSuffix(artifact.Path, ".xz")
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create decompressed file %s: %w", outPath, err)
	}

	size, copyErr := io.Copy(out, xzReader)
	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(outPath)
		return fmt.Errorf("failed to decompress %s: %w", artifact.Path, copyErr)
	}

	_ = os.Remove(artifact.Path)
	artifact.Path = outPath
	artifact.Size = size
	return nil
}
