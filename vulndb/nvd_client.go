// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package vulndb

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/l3montree-dev/scap-sync/monitoring"
	"github.com/l3montree-dev/scap-sync/utils"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

var cveURL = url.URL{
	Scheme: "https",
	Host:   "services.nvd.nist.gov",
	Path:   "/rest/json/cves/2.0",
}

var cpeURL = url.URL{
	Scheme: "https",
	Host:   "services.nvd.nist.gov",
	Path:   "/rest/json/cpes/2.0",
}

const (
	// the api maxima for resultsPerPage
	cvePageSize = 2000
	cpePageSize = 10000

	// we can only fetch 120 days at a time
	// we use 119 days, to make sure, that nvd is happy with the date range
	maxWindow = 119 * 24 * time.Hour

	// the published nvd limits are 5 requests per rolling 30 seconds without a key and
	// 50 with one
	rateWindow         = 30 * time.Second
	requestsWithoutKey = 5
	requestsWithKey    = 50

	defaultAttempts     = 10
	defaultRetryBackoff = 6 * time.Second
	requestTimeout      = 60 * time.Second
)

type NVDClientOptions struct {
	APIKey          string
	RequestAttempts int
	RetryBackoff    time.Duration

	// overrides for tests
	CVEURL  *url.URL
	CPEURL  *url.URL
	Now     func() time.Time
	Limiter *rate.Limiter
}

// NVDClient reads cves and cpes from the nvd 2.0 api. All requests share one rate
// limiter, so the cve and cpe pipelines together stay below the published limits.
type NVDClient struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	apiKey       string
	attempts     int
	retryBackoff time.Duration
	cveURL       url.URL
	cpeURL       url.URL
	now          func() time.Time
}

func NewNVDClient(opts NVDClientOptions) *NVDClient {
	requests := requestsWithoutKey
	if opts.APIKey != "" {
		requests = requestsWithKey
	}

	c := &NVDClient{
		httpClient: &http.Client{
			Transport: instrumentedTransport(&http.Transport{
				MaxIdleConnsPerHost: 3, // only allow 3 concurrent connections to the same host
			}),
		},
		limiter:      rate.NewLimiter(rate.Every(rateWindow/time.Duration(requests)), requests),
		apiKey:       opts.APIKey,
		attempts:     opts.RequestAttempts,
		retryBackoff: opts.RetryBackoff,
		cveURL:       cveURL,
		cpeURL:       cpeURL,
		now:          opts.Now,
	}
	if c.attempts <= 0 {
		c.attempts = defaultAttempts
	}
	if c.retryBackoff <= 0 {
		c.retryBackoff = defaultRetryBackoff
	}
	if opts.CVEURL != nil {
		c.cveURL = *opts.CVEURL
	}
	if opts.CPEURL != nil {
		c.cpeURL = *opts.CPEURL
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.Limiter != nil {
		c.limiter = opts.Limiter
	}
	return c
}

// CVEChunks returns every cve modified since the given time. Each page of the api is
// one chunk.
func (c *NVDClient) CVEChunks(ctx context.Context, since time.Time) iter.Seq2[[]NVDCVE, error] {
	return paginate(ctx, c, c.cveURL, cvePageSize, since, func(resp nistCVEResponse) ([]NVDCVE, int) {
		return utils.Map(resp.Vulnerabilities, func(v nvdVulnerability) NVDCVE {
			return v.CVE
		}), resp.TotalResults
	})
}

// CPEChunks returns every cpe modified since the given time. Each page of the api is
// one chunk.
func (c *NVDClient) CPEChunks(ctx context.Context, since time.Time) iter.Seq2[[]NVDCPE, error] {
	return paginate(ctx, c, c.cpeURL, cpePageSize, since, func(resp nistCPEResponse) ([]NVDCPE, int) {
		return utils.Map(resp.Products, func(p nvdProduct) NVDCPE {
			return p.CPE
		}), resp.TotalResults
	})
}

// instrumentedTransport counts requests by status code and observes their duration.
func instrumentedTransport(base http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperCounter(monitoring.NVDRequests,
		promhttp.InstrumentRoundTripperDuration(monitoring.NVDRequestDuration, base),
	)
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// paginate walks [since, now] in windows of at most 119 days and every window page by
// page. The sequence stops after the first error.
func paginate[R any, T any](ctx context.Context, c *NVDClient, base url.URL, pageSize int, since time.Time, items func(R) ([]T, int)) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		now := c.now().UTC()
		windowStart := since.UTC()

		for windowStart.Before(now) {
			windowEnd := minTime(now, windowStart.Add(maxWindow))

			startIndex := 0
			for {
				u := base
				q := u.Query()
				q.Set("lastModStartDate", windowStart.Format(utils.NVDRequestFormat))
				q.Set("lastModEndDate", windowEnd.Format(utils.NVDRequestFormat))
				q.Set("resultsPerPage", strconv.Itoa(pageSize))
				q.Set("startIndex", strconv.Itoa(startIndex))
				u.RawQuery = q.Encode()

				slog.Debug("fetching page from nvd", "url", u.String())
				resp, err := fetchJSON[R](ctx, c, u)
				if err != nil {
					yield(nil, err)
					return
				}

				page, total := items(resp)
				startIndex += len(page)
				slog.Debug("fetched nvd page", "totalResults", total, "currentIndex", startIndex)

				if len(page) > 0 && !yield(page, nil) {
					return
				}
				if len(page) == 0 || startIndex >= total {
					break
				}
			}

			windowStart = windowEnd
		}
	}
}

// fetchJSON retries transport errors, non 200 responses and undecodable bodies with a
// linear backoff.
func fetchJSON[R any](ctx context.Context, c *NVDClient, u url.URL) (R, error) {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				var zero R
				return zero, ctx.Err()
			case <-time.After(c.retryBackoff * time.Duration(attempt-1)):
			}
		}

		resp, err := doRequest[R](ctx, c, u)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return resp, ctx.Err()
		}
		lastErr = err
		slog.Warn("could not fetch from nvd", "try", attempt, "err", err)
	}

	var zero R
	return zero, errors.Wrapf(lastErr, "could not fetch from nvd after %d attempts", c.attempts)
}

func doRequest[R any](ctx context.Context, c *NVDClient, u url.URL) (R, error) {
	var resp R
	if err := c.limiter.Wait(ctx); err != nil {
		return resp, err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return resp, errors.Wrap(err, "could not create request before fetching from NVD")
	}
	if c.apiKey != "" {
		req.Header.Set("apiKey", c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return resp, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return resp, fmt.Errorf("unexpected status code %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return resp, errors.Wrap(err, "could not decode response from NVD")
	}
	return resp, nil
}
