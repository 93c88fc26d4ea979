package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/skyline93/heritour/internal/fs"
	"github.com/skyline93/heritour/internal/store"
	"github.com/skyline93/heritour/internal/tour"
)

// DefaultExpiry is the window after which a cached tour counts as stale.
const DefaultExpiry = 24 * time.Hour

const keyPrefix = "cached_tour_"

// CachedTour is the persisted snapshot of one downloaded tour: the record
// itself, the download time and the remote-URL to local-path mapping. The
// mapping is a pure cache over the record's asset enumeration and is never
// authoritative; URLs missing from it fall back to the remote side.
type CachedTour struct {
	Tour         tour.Record       `json:"tour_details"`
	DownloadedAt time.Time         `json:"downloaded_at"`
	LocalAssets  map[string]string `json:"local_assets"`
}

// LocalPath resolves a remote URL to its cached file. The second return is
// false when the URL was not cached, so the caller can use the remote URL.
func (c *CachedTour) LocalPath(url string) (string, bool) {
	p, ok := c.LocalAssets[url]
	return p, ok
}

// TourFetcher is the remote collaborator providing tour detail records.
type TourFetcher interface {
	TourDetails(ctx context.Context, id int) (*tour.Record, error)
}

// Options bundles the tunables of a Manager.
type Options struct {
	// Expiry overrides DefaultExpiry when positive.
	Expiry time.Duration

	// Now replaces time.Now for freshness checks and timestamps.
	Now func() time.Time
}

// Manager owns the asset cache: it downloads tours, persists the resulting
// CachedTour entries and answers freshness and resolution queries. All
// CachedTour mutation goes through the manager.
type Manager struct {
	api    TourFetcher
	store  *store.Store
	root   string
	expiry time.Duration
	now    func() time.Time

	dl *downloader

	// coalesces concurrent DownloadTour calls for the same tour id
	group singleflight.Group
}

// New creates the cache root directory and returns a ready manager.
func New(api TourFetcher, st *store.Store, root string, opts Options) (*Manager, error) {
	if api == nil {
		return nil, errors.New("cache: nil tour fetcher")
	}
	if st == nil {
		return nil, errors.New("cache: nil store")
	}
	if root == "" {
		return nil, errors.New("cache: empty root directory")
	}

	if opts.Expiry == 0 {
		opts.Expiry = DefaultExpiry
	}
	if opts.Expiry < 0 {
		return nil, errors.New("cache: negative expiry")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if err := fs.MkdirAll(root, 0700); err != nil {
		return nil, errors.Wrap(err, "MkdirAll")
	}

	return &Manager{
		api:    api,
		store:  st,
		root:   root,
		expiry: opts.Expiry,
		now:    opts.Now,
		dl:     newDownloader(),
	}, nil
}

// Root returns the cache root directory.
func (m *Manager) Root() string {
	return m.root
}

func key(id int) string {
	return keyPrefix + strconv.Itoa(id)
}

// tourDir returns the directory holding one tour's downloaded assets.
func (m *Manager) tourDir(id int) string {
	return filepath.Join(m.root, fmt.Sprintf("tour_%d", id))
}

// CachedTour reads the persisted entry for a tour. A missing or unreadable
// entry is a cache miss, not an error; corruption is logged.
func (m *Manager) CachedTour(id int) (*CachedTour, error) {
	ct := &CachedTour{}
	err := m.store.Get(key(id), ct)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Warnf("cache entry for tour %d unreadable, treating as miss: %v", id, err)
		return nil, nil
	}
	return ct, nil
}

// IsCached reports whether a tour has a cache entry that is still inside the
// expiry window. Expired entries are left in place (pure read).
func (m *Manager) IsCached(id int) bool {
	ct, err := m.CachedTour(id)
	if err != nil || ct == nil {
		return false
	}
	return m.now().Before(ct.DownloadedAt.Add(m.expiry))
}

// CachedTourIDs lists the ids of all persisted cache entries, sorted. Keys
// that do not follow the cached_tour_<id> convention are skipped.
func (m *Manager) CachedTourIDs() ([]int, error) {
	keys, err := m.store.Keys(keyPrefix)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(keys))
	for _, k := range keys {
		id, err := strconv.Atoi(strings.TrimPrefix(k, keyPrefix))
		if err != nil {
			log.Debugf("skipping foreign store key %v", k)
			continue
		}
		ids = append(ids, id)
	}

	sort.Ints(ids)
	return ids, nil
}

// Clear removes a tour's cache entry and its asset directory. Both steps are
// best-effort; failures are logged and the first error is returned for
// callers that care.
func (m *Manager) Clear(id int) error {
	err := m.store.Remove(key(id))
	if err != nil {
		log.Warnf("remove cache entry for tour %d: %v", id, err)
	}

	if derr := fs.RemoveAll(m.tourDir(id)); derr != nil {
		log.Warnf("remove asset directory for tour %d: %v", id, derr)
		if err == nil {
			err = derr
		}
	}

	return err
}

// ClearAll removes every cached tour entry and the whole cache root, then
// recreates the empty root so the next download needs no extra setup.
func (m *Manager) ClearAll() error {
	keys, err := m.store.Keys(keyPrefix)
	if err != nil {
		log.Warnf("list cache entries: %v", err)
	} else if rerr := m.store.RemoveKeys(keys); rerr != nil && err == nil {
		err = rerr
	}

	if derr := fs.RemoveAll(m.root); derr != nil {
		log.Warnf("remove cache root: %v", derr)
		if err == nil {
			err = derr
		}
	}

	if merr := fs.MkdirAll(m.root, 0700); merr != nil {
		log.Warnf("recreate cache root: %v", merr)
		if err == nil {
			err = merr
		}
	}

	return err
}
