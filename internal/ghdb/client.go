package ghdb

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/gdorking/internal/fetch"
	"github.com/nao1215/gdorking/internal/markup"
	"github.com/nao1215/gdorking/internal/model"
	"github.com/nao1215/gdorking/internal/retry"
)

const (
	listingPath = "/google-hacking-database"
	entryPath   = "/ghdb/"

	defaultOrigin   = "https://www.exploit-db.com"
	defaultPageSize = 250
)

// Client reads the Google Hacking Database through a fetch.Fetcher.
// Every request goes through the retrier.
type Client struct {
	fetcher  fetch.Fetcher
	origin   string
	pageSize int
	retrier  *retry.Retrier
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithOrigin sets the site origin, e.g. "https://www.exploit-db.com".
func WithOrigin(origin string) Option {
	return func(c *Client) { c.origin = strings.TrimRight(origin, "/") }
}

// WithPageSize sets the listing page length.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = n }
}

// WithRetrier replaces the default retry schedule.
func WithRetrier(r *retry.Retrier) Option {
	return func(c *Client) { c.retrier = r }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Client. Without options it pages through
// exploit-db 250 records at a time and retries transient failures five
// times, waiting 1s, 2s, 4s and 8s.
func NewClient(f fetch.Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher:  f,
		origin:   defaultOrigin,
		pageSize: defaultPageSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pageSize <= 0 {
		c.pageSize = defaultPageSize
	}
	if c.retrier == nil {
		c.retrier = retry.NewRetrier(retry.Config{
			MaxAttempts:   5,
			BaseDelay:     time.Second,
			BackoffFactor: 2,
		}, fetch.IsRetryable, c.logger)
	}
	return c
}

// Origin returns the site origin used to build and resolve URLs.
func (c *Client) Origin() string {
	return c.origin
}

// ListingURL returns the paginated listing endpoint without parameters.
func (c *Client) ListingURL() string {
	return c.origin + listingPath
}

// EntryURL returns the detail page of one entry.
func (c *Client) EntryURL(id int) string {
	return c.origin + entryPath + strconv.Itoa(id)
}

// listingPage is the DataTables envelope of one listing page.
// Pointers distinguish a missing key from a zero value.
type listingPage struct {
	RecordsTotal *int                `json:"recordsTotal"`
	Data         *[]model.DorkRecord `json:"data"`
}

// FetchAll pages through the listing until the number of accumulated
// records reaches the reported total. Pages are assumed disjoint; records
// are not deduplicated. A page with no records also ends the loop so a
// shrinking upstream cannot keep it spinning.
func (c *Client) FetchAll(ctx context.Context) ([]model.DorkRecord, error) {
	var records []model.DorkRecord

	for offset := 0; ; offset += c.pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, total, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		records = append(records, data...)

		c.logger.Debug("fetched listing page",
			"offset", offset, "page_records", len(data), "records", len(records), "total", total)

		if len(records) >= total {
			break
		}
		if len(data) == 0 {
			c.logger.Warn("listing ended before reaching the reported total",
				"records", len(records), "total", total)
			break
		}
	}

	c.logger.Info("fetched listing", "records", len(records))
	return records, nil
}

func (c *Client) fetchPage(ctx context.Context, offset int) ([]model.DorkRecord, int, error) {
	url := fmt.Sprintf("%s?length=%d&start=%d", c.ListingURL(), c.pageSize, offset)

	payload, err := c.get(ctx, url, true)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch listing page at offset %d: %w", offset, err)
	}

	var page listingPage
	if err := payload.Decode(&page); err != nil {
		return nil, 0, &DecodeError{URL: url, Err: err}
	}
	if page.RecordsTotal == nil {
		return nil, 0, &DecodeError{URL: url, Err: ErrMissingRecordsTotal}
	}
	if page.Data == nil {
		return nil, 0, &DecodeError{URL: url, Err: ErrMissingData}
	}
	for i, r := range *page.Data {
		if r.ID <= 0 || r.URLTitle == "" {
			return nil, 0, &DecodeError{URL: url, Err: fmt.Errorf("record %d: %w", i, ErrInvalidRecord)}
		}
	}
	return *page.Data, *page.RecordsTotal, nil
}

// FetchEntry fetches and parses the detail page of one entry.
func (c *Client) FetchEntry(ctx context.Context, id int) (*model.DorkEntryDetail, error) {
	url := c.EntryURL(id)

	payload, err := c.get(ctx, url, false)
	if err != nil {
		return nil, fmt.Errorf("fetch entry %d: %w", id, err)
	}

	detail, err := markup.ExtractDetail(bytes.NewReader(payload.Body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return detail, nil
}

func (c *Client) get(ctx context.Context, url string, expectJSON bool) (*fetch.Payload, error) {
	var payload *fetch.Payload
	err := c.retrier.Do(ctx, func() error {
		var err error
		payload, err = c.fetcher.Fetch(ctx, url, expectJSON)
		return err
	})
	return payload, err
}
