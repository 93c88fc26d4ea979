package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
	"github.com/pkg/xattr"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/heritour/internal/fs"
)

// xattr recording the source URL on each cached file, best-effort.
const urlAttr = "user.heritour.url"

// DownloadError reports a failed fetch of a single asset. The batch recovers
// from it by omitting the URL from the mapping.
type DownloadError struct {
	URL    string
	Status int
}

func (e *DownloadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("download %v: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("download %v failed", e.URL)
}

type downloader struct {
	http *http.Client
}

func newDownloader() *downloader {
	return &downloader{http: &http.Client{Timeout: 2 * time.Minute}}
}

// urlPrefix returns the deterministic filename prefix for a URL, the first
// 12 hex digits of its SHA-256.
func urlPrefix(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("%x", sum)[:12]
}

// displayName returns the name shown in progress reports for a URL, its
// trailing path segment.
func displayName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return path.Base(rawURL)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return rawURL
	}
	return name
}

// fetch downloads rawURL into dir and returns the local file path. When a
// file for this URL already exists in dir it is returned without touching the
// network. The filename keeps the URL's trailing segment and extension and is
// disambiguated with a timestamp and a short random token.
func (d *downloader) fetch(ctx context.Context, dir, rawURL string) (string, error) {
	prefix := urlPrefix(rawURL)

	matches, err := filepath.Glob(filepath.Join(dir, prefix+"-*"))
	if err == nil && len(matches) > 0 {
		log.Debugf("asset %v already cached at %v", rawURL, matches[0])
		return matches[0], nil
	}

	if err := fs.MkdirAll(dir, 0700); err != nil {
		return "", errors.Wrap(err, "MkdirAll")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "NewRequest")
	}

	res, err := d.http.Do(req)
	if err != nil {
		return "", &DownloadError{URL: rawURL}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &DownloadError{URL: rawURL, Status: res.StatusCode}
	}

	filename := filepath.Join(dir, derivedName(prefix, rawURL))
	if err := saveBody(filename, res.Body); err != nil {
		return "", err
	}

	// Tag the file with its origin. Not all filesystems support xattrs.
	if err := xattr.Set(filename, urlAttr, []byte(rawURL)); err != nil {
		log.Debugf("set %v on %v: %v", urlAttr, filename, err)
	}

	return filename, nil
}

// derivedName builds the on-disk filename: deterministic URL prefix, the
// URL's trailing segment, a unix timestamp and a random token, with the
// original extension preserved.
func derivedName(prefix, rawURL string) string {
	base := displayName(rawURL)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "asset"
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%d-%s%s", prefix, stem, time.Now().Unix(), token, ext)
}

// saveBody streams the response body to a temporary file and renames it into
// place, so an aborted download never leaves a half-written asset behind.
func saveBody(filename string, body io.Reader) error {
	dir, base := filepath.Split(filename)

	f, err := os.CreateTemp(dir, base+".part-*")
	if err != nil {
		return errors.Wrap(err, "CreateTemp")
	}
	tmp := f.Name()

	_, err = io.Copy(f, body)
	if err == nil {
		err = f.Sync()
	}

	cerr := f.Close()
	if err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0600)
	}
	if err == nil {
		err = os.Rename(tmp, filename)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "save asset")
	}
	return nil
}
