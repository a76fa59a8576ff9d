package ghdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/nao1215/gdorking/internal/fetch"
	"github.com/nao1215/gdorking/internal/markup"
	"github.com/nao1215/gdorking/internal/retry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastRetrier() *retry.Retrier {
	return retry.NewRetrier(retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond, BackoffFactor: 2},
		fetch.IsRetryable, testLogger())
}

// listing fakes the exploit-db listing endpoint over total records.
func listing(total int) func(start, length int) []byte {
	return func(start, length int) []byte {
		data := make([]map[string]any, 0, length)
		for i := start; i < start+length && i < total; i++ {
			id := i + 1
			data = append(data, map[string]any{
				"id":        strconv.Itoa(id),
				"url_title": fmt.Sprintf(`<a href="/ghdb/%d">inurl:dork%d</a>`, id, id),
				"category":  map[string]any{"cat_id": 1, "cat_title": "Footholds"},
				"date":      "2023-01-18",
				"author":    map[string]any{"id": 7, "name": "tester"},
			})
		}
		body, _ := json.Marshal(map[string]any{"recordsTotal": total, "data": data}) //nolint:errcheck // test data
		return body
	}
}

// fakeFetcher records requested URLs and serves responses by call order.
type fakeFetcher struct {
	urls      []string
	responses []func(u *url.URL) (*fetch.Payload, error)
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string, expectJSON bool) (*fetch.Payload, error) {
	f.urls = append(f.urls, rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	i := len(f.urls) - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i](u)
}

func servePage(page func(start, length int) []byte) func(u *url.URL) (*fetch.Payload, error) {
	return func(u *url.URL) (*fetch.Payload, error) {
		start, _ := strconv.Atoi(u.Query().Get("start"))   //nolint:errcheck // test helper
		length, _ := strconv.Atoi(u.Query().Get("length")) //nolint:errcheck // test helper
		return &fetch.Payload{URL: u.String(), Body: page(start, length), IsJSON: true}, nil
	}
}

func serveBody(body string) func(u *url.URL) (*fetch.Payload, error) {
	return func(u *url.URL) (*fetch.Payload, error) {
		return &fetch.Payload{URL: u.String(), Body: []byte(body), IsJSON: true}, nil
	}
}

func TestFetchAllPagination(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{responses: []func(*url.URL) (*fetch.Payload, error){servePage(listing(260))}}
	c := NewClient(f, WithPageSize(250), WithRetrier(fastRetrier()), WithLogger(testLogger()))

	records, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.urls) != 2 {
		t.Fatalf("expected 2 fetch calls, got %d: %v", len(f.urls), f.urls)
	}
	for i, wantStart := range []string{"0", "250"} {
		u, _ := url.Parse(f.urls[i]) //nolint:errcheck // produced by the client
		if got := u.Query().Get("start"); got != wantStart {
			t.Errorf("call %d: expected start=%s, got %s", i, wantStart, got)
		}
		if got := u.Query().Get("length"); got != "250" {
			t.Errorf("call %d: expected length=250, got %s", i, got)
		}
		if u.Path != "/google-hacking-database" {
			t.Errorf("call %d: unexpected path %s", i, u.Path)
		}
	}
	if len(records) != 260 {
		t.Errorf("expected 260 records, got %d", len(records))
	}
	if records[259].ID != 260 {
		t.Errorf("expected last record id 260, got %d", records[259].ID)
	}
}

func TestFetchAllSinglePage(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{responses: []func(*url.URL) (*fetch.Payload, error){servePage(listing(3))}}
	c := NewClient(f, WithRetrier(fastRetrier()), WithLogger(testLogger()))

	records, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.urls) != 1 || len(records) != 3 {
		t.Errorf("expected 1 call and 3 records, got %d calls and %d records", len(f.urls), len(records))
	}
}

func TestFetchAllStopsOnEmptyPage(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{responses: []func(*url.URL) (*fetch.Payload, error){
		serveBody(`{"recordsTotal": 500, "data": [{"id": 1, "url_title": "<a href=\"/ghdb/1\">x:y</a>"}]}`),
		serveBody(`{"recordsTotal": 500, "data": []}`),
	}}
	c := NewClient(f, WithPageSize(1), WithRetrier(fastRetrier()), WithLogger(testLogger()))

	records, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.urls) != 2 || len(records) != 1 {
		t.Errorf("expected 2 calls and 1 record, got %d calls and %d records", len(f.urls), len(records))
	}
}

func TestFetchAllDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "missing recordsTotal", body: `{"data": []}`, wantErr: ErrMissingRecordsTotal},
		{name: "missing data", body: `{"recordsTotal": 10}`, wantErr: ErrMissingData},
		{name: "record without url_title", body: `{"recordsTotal": 1, "data": [{"id": 5}]}`, wantErr: ErrInvalidRecord},
		{name: "record without id", body: `{"recordsTotal": 1, "data": [{"url_title": "<a href=\"/\">x</a>"}]}`, wantErr: ErrInvalidRecord},
		{name: "not json", body: `<html>blocked</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := &fakeFetcher{responses: []func(*url.URL) (*fetch.Payload, error){serveBody(tt.body)}}
			c := NewClient(f, WithRetrier(fastRetrier()), WithLogger(testLogger()))

			records, err := c.FetchAll(context.Background())
			if records != nil {
				t.Errorf("expected no records, got %d", len(records))
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(f.urls) != 1 {
				t.Errorf("expected decode errors not to be retried, got %d calls", len(f.urls))
			}
		})
	}
}

func TestFetchAllRetries(t *testing.T) {
	t.Parallel()

	t.Run("transient failure is retried", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{responses: []func(*url.URL) (*fetch.Payload, error){
			func(u *url.URL) (*fetch.Payload, error) {
				return nil, &fetch.HTTPStatusError{URL: u.String(), StatusCode: 502, Status: "502 Bad Gateway"}
			},
			servePage(listing(2)),
		}}
		c := NewClient(f, WithRetrier(fastRetrier()), WithLogger(testLogger()))

		records, err := c.FetchAll(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.urls) != 2 || len(records) != 2 {
			t.Errorf("expected 2 calls and 2 records, got %d calls and %d records", len(f.urls), len(records))
		}
	})

	t.Run("exhausted retries surface the failure", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{responses: []func(*url.URL) (*fetch.Payload, error){
			func(u *url.URL) (*fetch.Payload, error) {
				return nil, &fetch.NetworkError{URL: u.String(), Err: io.ErrUnexpectedEOF}
			},
		}}
		c := NewClient(f, WithRetrier(fastRetrier()), WithLogger(testLogger()))

		_, err := c.FetchAll(context.Background())
		var netErr *fetch.NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected NetworkError, got %v", err)
		}
		if len(f.urls) != 3 {
			t.Errorf("expected 3 attempts, got %d", len(f.urls))
		}
	})
}

const entryPage = `<html><body><div class="content">
<div class="card card-stats">
  <div class="card-body statistics"><div class="info"><div class="row">
    <div class="col-6"><h4>GHDB-ID:</h4><h6 class="stats-title">42</h6></div>
    <div class="col-6"><h4>Author:</h4><h6 class="stats-title">tester</h6></div>
  </div></div></div>
  <div class="card-footer"><div class="stats">Published: 2024-02-03</div></div>
</div>
<div>Google Search: <a class="external" href="https://www.google.com/search?q=inurl:admin">inurl:admin</a></div>
%s
</div></body></html>`

func TestFetchEntryHTTP(t *testing.T) {
	t.Parallel()

	newServer := func(code string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/ghdb/42" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = fmt.Fprintf(w, entryPage, code)
		}))
	}

	t.Run("parses the detail page", func(t *testing.T) {
		t.Parallel()

		server := newServer(`<code class="language-text">inurl:admin</code>`)
		defer server.Close()

		fc, err := fetch.NewClient(fetch.WithLogger(testLogger()))
		if err != nil {
			t.Fatal(err)
		}
		c := NewClient(fc, WithOrigin(server.URL+"/"), WithRetrier(fastRetrier()), WithLogger(testLogger()))

		if got := c.EntryURL(42); got != server.URL+"/ghdb/42" {
			t.Errorf("unexpected entry url %q", got)
		}

		d, err := c.FetchEntry(context.Background(), 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.GHDBID != "42" || d.Author != "tester" || d.PublishDate != "2024-02-03" || d.CodeText != "inurl:admin" {
			t.Errorf("unexpected detail %+v", d)
		}
	})

	t.Run("missing code block is an extraction error", func(t *testing.T) {
		t.Parallel()

		server := newServer(``)
		defer server.Close()

		fc, err := fetch.NewClient(fetch.WithLogger(testLogger()))
		if err != nil {
			t.Fatal(err)
		}
		c := NewClient(fc, WithOrigin(server.URL), WithRetrier(fastRetrier()), WithLogger(testLogger()))

		d, err := c.FetchEntry(context.Background(), 42)
		if d != nil {
			t.Errorf("expected no detail, got %+v", d)
		}
		var extractErr *markup.ExtractionError
		if !errors.As(err, &extractErr) || extractErr.Field != markup.FieldCodeText {
			t.Errorf("expected code_text extraction error, got %v", err)
		}
	})

	t.Run("unknown entry is an HTTP status error", func(t *testing.T) {
		t.Parallel()

		server := newServer(``)
		defer server.Close()

		fc, err := fetch.NewClient(fetch.WithLogger(testLogger()))
		if err != nil {
			t.Fatal(err)
		}
		c := NewClient(fc, WithOrigin(server.URL), WithRetrier(fastRetrier()), WithLogger(testLogger()))

		_, err = c.FetchEntry(context.Background(), 7)
		var statusErr *fetch.HTTPStatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 status error, got %v", err)
		}
	})
}

func TestFetchAllHTTP(t *testing.T) {
	t.Parallel()

	page := listing(5)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/google-hacking-database" {
			http.NotFound(w, r)
			return
		}
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))   //nolint:errcheck // test server
		length, _ := strconv.Atoi(r.URL.Query().Get("length")) //nolint:errcheck // test server
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(page(start, length))
	}))
	defer server.Close()

	fc, err := fetch.NewClient(fetch.WithLogger(testLogger()))
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(fc, WithOrigin(server.URL), WithPageSize(2), WithRetrier(fastRetrier()), WithLogger(testLogger()))

	records, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	if records[0].Category.Title != "Footholds" || records[0].Author.Name != "tester" {
		t.Errorf("unexpected first record %+v", records[0])
	}
}
