package cache

import (
	"context"
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Progress is one step of a batch download, as consumed by UI callbacks.
type Progress struct {
	Total       int
	Downloaded  int
	CurrentFile string
	Percentage  int
}

// ProgressFunc receives progress updates during DownloadTour. It is called
// from the downloading goroutine, strictly in order.
type ProgressFunc func(Progress)

// marker reported once the last asset attempt has finished.
const progressComplete = "complete"

func percentage(downloaded, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(downloaded) / float64(total) * 100))
}

// DownloadTour fetches the tour record, downloads every referenced asset
// sequentially and persists the resulting CachedTour under the tour's key.
//
// Only the record fetch is fatal. A failed asset download is logged and its
// URL left out of the mapping, so the cache degrades to remote URLs for the
// missing pieces. Concurrent calls for the same tour id share one batch.
func (m *Manager) DownloadTour(ctx context.Context, id int, fn ProgressFunc) (*CachedTour, error) {
	v, err, _ := m.group.Do(key(id), func() (interface{}, error) {
		return m.downloadTour(ctx, id, fn)
	})
	if err != nil {
		return nil, err
	}
	return v.(*CachedTour), nil
}

func (m *Manager) downloadTour(ctx context.Context, id int, fn ProgressFunc) (*CachedTour, error) {
	rec, err := m.api.TourDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	urls := rec.AssetURLs()
	total := len(urls)
	dir := m.tourDir(id)

	log.Infof("downloading tour %d: %d assets", id, total)

	report := func(downloaded int, current string) {
		if fn == nil {
			return
		}
		fn(Progress{
			Total:       total,
			Downloaded:  downloaded,
			CurrentFile: current,
			Percentage:  percentage(downloaded, total),
		})
	}

	assets := make(map[string]string, total)
	for i, u := range urls {
		report(i, displayName(u))

		local, err := m.dl.fetch(ctx, dir, u)
		if err != nil {
			log.Warnf("asset skipped: %v", err)
		} else {
			assets[u] = local
		}

		next := progressComplete
		if i+1 < total {
			next = displayName(urls[i+1])
		}
		report(i+1, next)
	}

	if total == 0 {
		report(0, progressComplete)
	}

	ct := &CachedTour{
		Tour:         *rec,
		DownloadedAt: m.now(),
		LocalAssets:  assets,
	}

	if err := m.store.Put(key(id), ct); err != nil {
		return nil, errors.Wrapf(err, "persist cache entry for tour %d", id)
	}

	log.Infof("tour %d cached: %d/%d assets", id, len(assets), total)
	return ct, nil
}
