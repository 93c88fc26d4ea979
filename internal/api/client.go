package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/heritour/internal/tour"
)

// FetchError is the fatal error class of the cache: the tour detail record
// could not be fetched, so no batch download can proceed. Status is zero for
// transport-level failures.
type FetchError struct {
	TourID int
	Status int
	Msg    string
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch tour %d: %s (status %d)", e.TourID, e.Msg, e.Status)
	}
	return fmt.Sprintf("fetch tour %d: %s", e.TourID, e.Msg)
}

// Config holds all information needed to talk to the tour API.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// NewConfig returns a new config with default options applied.
func NewConfig() Config {
	return Config{Timeout: 30 * time.Second}
}

// Client fetches tour detail records from the remote API.
type Client struct {
	cfg  Config
	http *http.Client

	// newBackOff builds the retry policy for one fetch. Replaceable in tests.
	newBackOff func() backoff.BackOff
}

// New returns a client for the given config.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api: empty base URL")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = NewConfig().Timeout
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 500 * time.Millisecond
			bo.MaxElapsedTime = 15 * time.Second
			return bo
		},
	}, nil
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.http = hc
}

// SetBackOff replaces the retry policy factory.
func (c *Client) SetBackOff(fn func() backoff.BackOff) {
	c.newBackOff = fn
}

// TourDetails fetches the detail record for one tour. Transport errors and
// server errors are retried; client errors (4xx) fail immediately. Every
// failure surfaces as a *FetchError.
func (c *Client) TourDetails(ctx context.Context, id int) (*tour.Record, error) {
	url := fmt.Sprintf("%s/tours/%d", c.cfg.BaseURL, id)

	var rec *tour.Record
	op := func() error {
		var err error
		rec, err = c.fetch(ctx, url)
		return err
	}

	err := backoff.Retry(op, backoff.WithContext(c.newBackOff(), ctx))
	if err != nil {
		var ferr *FetchError
		if !errors.As(err, &ferr) {
			ferr = &FetchError{TourID: id, Msg: err.Error()}
		} else {
			ferr.TourID = id
		}
		return nil, ferr
	}

	log.Debugf("fetched tour %d: %q, %d objects", id, rec.Title, len(rec.Objects))
	return rec, nil
}

func (c *Client) fetch(ctx context.Context, url string) (*tour.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "NewRequest"))
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	if res.StatusCode >= 500 {
		return nil, &FetchError{Status: res.StatusCode, Msg: "server error"}
	}
	if res.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(&FetchError{Status: res.StatusCode, Msg: "request rejected"})
	}

	rec := &tour.Record{}
	if err := json.NewDecoder(res.Body).Decode(rec); err != nil {
		return nil, backoff.Permanent(&FetchError{Msg: "decode response: " + err.Error()})
	}

	return rec, nil
}
