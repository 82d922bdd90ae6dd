// Package urlconn is a read-only URL-stream Connector reference fixture: it
// fetches a newline-delimited JSON body over HTTP and publishes one record
// per line. Its retry/backoff behavior is adapted from the teacher's
// internal/datasource/httpds.Client: exponential backoff on 5xx/429 and
// transport errors, context-aware sleeps, an injectable sleep function for
// tests.
package urlconn

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cqlbulk/internal/record"
)

// Connector fetches URL and streams its newline-delimited JSON body.
type Connector struct {
	URL        string
	MaxRetries int
	Backoff    time.Duration
	MaxBackoff time.Duration

	client *http.Client
	sleep  func(time.Duration)
}

func New() *Connector {
	return &Connector{
		MaxRetries: 3,
		Backoff:    200 * time.Millisecond,
		MaxBackoff: 5 * time.Second,
		client:     &http.Client{Timeout: 30 * time.Second},
		sleep:      time.Sleep,
	}
}

func (c *Connector) Configure(settings map[string]string, isRead bool) error {
	if !isRead {
		return fmt.Errorf("urlconn: write direction is not supported")
	}
	url, ok := settings["url"]
	if !ok || url == "" {
		return fmt.Errorf("urlconn: settings.url is required")
	}
	c.URL = url
	return nil
}

func (c *Connector) Init(ctx context.Context) error { return nil }

func (c *Connector) Close() error { return nil }

func (c *Connector) Read(ctx context.Context) (<-chan *record.Record, error) {
	resp, err := c.doWithRetry(ctx)
	if err != nil {
		return nil, fmt.Errorf("urlconn: %w", err)
	}

	out := make(chan *record.Record)
	resource := record.NewResource(c.URL)

	go func() {
		defer close(out)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		var position int64
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			position++

			var obj map[string]any
			if err := json.Unmarshal([]byte(line), &obj); err != nil {
				rec, buildErr := record.NewError(line, resource, position, fmt.Errorf("urlconn: %w", err))
				if buildErr != nil {
					continue
				}
				select {
				case out <- rec:
				case <-ctx.Done():
					return
				}
				continue
			}

			entries := make([]record.Entry, 0, len(obj))
			for k, v := range obj {
				entries = append(entries, record.Entry{Field: record.NamedField(k), Value: v})
			}
			rec, err := record.New(line, resource, position, entries)
			if err != nil {
				continue
			}
			select {
			case out <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Write is unsupported: urlconn is a read-only reference fixture.
func (c *Connector) Write(ctx context.Context, in <-chan *record.Record) (<-chan *record.Record, error) {
	return nil, fmt.Errorf("urlconn: write direction is not supported")
}

func (c *Connector) doWithRetry(ctx context.Context) (*http.Response, error) {
	attempts := c.MaxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
		} else if !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		} else {
			resp.Body.Close()
			lastErr = fmt.Errorf("retryable status %d from GET %s", resp.StatusCode, c.URL)
		}

		if attempt+1 >= attempts {
			return nil, lastErr
		}
		if err := sleepWithContext(ctx, c.sleep, backoffDuration(c.Backoff, attempt, c.MaxBackoff)); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

func backoffDuration(initial time.Duration, attempt int, max time.Duration) time.Duration {
	if attempt <= 0 {
		if initial > max {
			return max
		}
		return initial
	}
	d := initial << attempt
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, sleep func(time.Duration), d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	done := make(chan struct{})
	go func() {
		sleep(d)
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
