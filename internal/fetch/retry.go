// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/pdfextract/internal/logging"
)

// RetryBaseDelay is the first backoff wait after an HTTP 429 without a
// usable Retry-After header. It doubles on every further attempt. Tests
// lower it.
var RetryBaseDelay = 10 * time.Second

// maxRetryAfter caps how long a server can make a download wait.
const maxRetryAfter = 2 * time.Minute

const defaultMaxRetries = 5

// DoWithRetry sends req and resends it while the server answers HTTP 429,
// up to maxRetries times (default 5 when maxRetries <= 0). The wait comes
// from the Retry-After header when present, else from exponential backoff.
// The last 429 response is returned once retries run out; a context
// cancelled while waiting returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, log logging.Logger) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if log == nil {
		log = logging.Nop()
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		wait := retryDelay(resp.Header.Get("Retry-After"), attempt, time.Now())
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		log.Warnf("fetch %s: HTTP 429, retry %d/%d in %v", req.URL.Host, attempt+1, maxRetries, wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// retryDelay reads Retry-After as delay-seconds or an HTTP date, capped at
// maxRetryAfter. Without a valid header it returns RetryBaseDelay doubled
// once per earlier attempt.
func retryDelay(retryAfter string, attempt int, now time.Time) time.Duration {
	retryAfter = strings.TrimSpace(retryAfter)
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, maxRetryAfter)
	}
	if at, err := http.ParseTime(retryAfter); err == nil {
		return min(max(at.Sub(now), 0), maxRetryAfter)
	}
	return RetryBaseDelay << attempt
}
