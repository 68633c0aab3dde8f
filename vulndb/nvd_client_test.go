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
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/l3montree-dev/scap-sync/monitoring"
	"github.com/l3montree-dev/scap-sync/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type recordedRequest struct {
	query  url.Values
	apiKey string
}

type fakeNVD struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request, n int)
}

func (f *fakeNVD) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{query: r.URL.Query(), apiKey: r.Header.Get("apiKey")})
	n := len(f.requests)
	f.mu.Unlock()
	f.handler(w, r, n)
}

func newTestClient(t *testing.T, f *fakeNVD, now time.Time, apiKey string) *NVDClient {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return NewNVDClient(NVDClientOptions{
		APIKey:          apiKey,
		RequestAttempts: 3,
		RetryBackoff:    time.Millisecond,
		CVEURL:          u.JoinPath("/cves/2.0"),
		CPEURL:          u.JoinPath("/cpes/2.0"),
		Now:             func() time.Time { return now },
		Limiter:         rate.NewLimiter(rate.Inf, 1),
	})
}

func writeCVEPage(t *testing.T, w http.ResponseWriter, total int, ids ...string) {
	resp := nistCVEResponse{TotalResults: total, ResultsPerPage: len(ids)}
	for _, id := range ids {
		resp.Vulnerabilities = append(resp.Vulnerabilities, nvdVulnerability{CVE: NVDCVE{
			ID:           id,
			LastModified: utils.Timestamp(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)),
		}})
	}
	assert.NoError(t, json.NewEncoder(w).Encode(resp))
}

func collect[T any](t *testing.T, seq iter.Seq2[[]T, error]) ([][]T, error) {
	t.Helper()
	var chunks [][]T
	for chunk, err := range seq {
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func TestNVDClientCVEChunks(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	since := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	t.Run("should yield every page as one chunk", func(t *testing.T) {
		f := &fakeNVD{handler: func(w http.ResponseWriter, r *http.Request, n int) {
			switch r.URL.Query().Get("startIndex") {
			case "0":
				writeCVEPage(t, w, 3, "CVE-2024-0001", "CVE-2024-0002")
			default:
				writeCVEPage(t, w, 3, "CVE-2024-0003")
			}
		}}
		client := newTestClient(t, f, now, "")

		chunks, err := collect(t, client.CVEChunks(context.Background(), since))
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Len(t, chunks[0], 2)
		assert.Equal(t, "CVE-2024-0003", chunks[1][0].ID)

		require.Len(t, f.requests, 2)
		first := f.requests[0].query
		assert.Equal(t, "2024-03-08T00:00:00.000+00:00", first.Get("lastModStartDate"))
		assert.Equal(t, "2024-03-10T12:00:00.000+00:00", first.Get("lastModEndDate"))
		assert.Equal(t, "2000", first.Get("resultsPerPage"))
		assert.Equal(t, "2", f.requests[1].query.Get("startIndex"))
	})

	t.Run("should split long ranges into windows of at most 119 days", func(t *testing.T) {
		f := &fakeNVD{handler: func(w http.ResponseWriter, r *http.Request, n int) {
			writeCVEPage(t, w, 0)
		}}
		client := newTestClient(t, f, now, "")

		longAgo := now.AddDate(0, 0, -200)
		chunks, err := collect(t, client.CVEChunks(context.Background(), longAgo))
		require.NoError(t, err)
		assert.Empty(t, chunks)

		require.Len(t, f.requests, 2)
		firstEnd := f.requests[0].query.Get("lastModEndDate")
		assert.Equal(t, longAgo.Add(maxWindow).Format(utils.NVDRequestFormat), firstEnd)
		assert.Equal(t, firstEnd, f.requests[1].query.Get("lastModStartDate"))
		assert.Equal(t, now.Format(utils.NVDRequestFormat), f.requests[1].query.Get("lastModEndDate"))
	})

	t.Run("should not request anything if since is in the future", func(t *testing.T) {
		f := &fakeNVD{handler: func(w http.ResponseWriter, r *http.Request, n int) {
			writeCVEPage(t, w, 0)
		}}
		client := newTestClient(t, f, now, "")

		chunks, err := collect(t, client.CVEChunks(context.Background(), now.Add(time.Hour)))
		require.NoError(t, err)
		assert.Empty(t, chunks)
		assert.Empty(t, f.requests)
	})

	t.Run("should retry failed requests", func(t *testing.T) {
		f := &fakeNVD{handler: func(w http.ResponseWriter, r *http.Request, n int) {
			if n < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			writeCVEPage(t, w, 1, "CVE-2024-0001")
		}}
		client := newTestClient(t, f, now, "")

		chunks, err := collect(t, client.CVEChunks(context.Background(), since))
		require.NoError(t, err)
		assert.Len(t, chunks, 1)
		assert.Len(t, f.requests, 3)
	})

	t.Run("should end the sequence with an error once all attempts failed", func(t *testing.T) {
		f := &fakeNVD{handler: func(w http.ResponseWriter, r *http.Request, n int) {
			if r.URL.Query().Get("startIndex") == "0" {
				writeCVEPage(t, w, 2, "CVE-2024-0001")
				return
			}
			fmt.Fprint(w, "{not json")
		}}
		client := newTestClient(t, f, now, "")

		chunks, err := collect(t, client.CVEChunks(context.Background(), since))
		assert.Error(t, err)
		assert.Len(t, chunks, 1)
		// one successful request plus three attempts for the second page
		assert.Len(t, f.requests, 4)
	})

	t.Run("should treat a malformed timestamp as a failed page", func(t *testing.T) {
		f := &fakeNVD{handler: func(w http.ResponseWriter, r *http.Request, n int) {
			fmt.Fprint(w, `{"totalResults":1,"vulnerabilities":[{"cve":{"id":"CVE-2024-0001","lastModified":"yesterday"}}]}`)
		}}
		client := newTestClient(t, f, now, "")

		_, err := collect(t, client.CVEChunks(context.Background(), since))
		assert.Error(t, err)
	})

	t.Run("should count requests by status code", func(t *testing.T) {
		f := &fakeNVD{handler: func(w http.ResponseWriter, r *http.Request, n int) {
			if n == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			writeCVEPage(t, w, 0)
		}}
		client := newTestClient(t, f, now, "")
		ok := testutil.ToFloat64(monitoring.NVDRequests.WithLabelValues("200"))
		throttled := testutil.ToFloat64(monitoring.NVDRequests.WithLabelValues("429"))

		_, err := collect(t, client.CVEChunks(context.Background(), since))
		require.NoError(t, err)
		assert.Equal(t, ok+1, testutil.ToFloat64(monitoring.NVDRequests.WithLabelValues("200")))
		assert.Equal(t, throttled+1, testutil.ToFloat64(monitoring.NVDRequests.WithLabelValues("429")))
	})

	t.Run("should send the api key as header", func(t *testing.T) {
		f := &fakeNVD{handler: func(w http.ResponseWriter, r *http.Request, n int) {
			writeCVEPage(t, w, 0)
		}}
		client := newTestClient(t, f, now, "secret")

		_, err := collect(t, client.CVEChunks(context.Background(), since))
		require.NoError(t, err)
		require.Len(t, f.requests, 1)
		assert.Equal(t, "secret", f.requests[0].apiKey)
	})

	t.Run("should stop when the context is canceled", func(t *testing.T) {
		f := &fakeNVD{handler: func(w http.ResponseWriter, r *http.Request, n int) {
			w.WriteHeader(http.StatusInternalServerError)
		}}
		client := newTestClient(t, f, now, "")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := collect(t, client.CVEChunks(ctx, since))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNVDClientCPEChunks(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	f := &fakeNVD{handler: func(w http.ResponseWriter, r *http.Request, n int) {
		start, _ := strconv.Atoi(r.URL.Query().Get("startIndex"))
		fmt.Fprintf(w, `{"totalResults":2,"products":[{"cpe":{"cpeName":"cpe:2.3:a:acme:widget:1.%d:*:*:*:*:*:*:*","cpeNameId":"87316812-5F2C-4286-94FE-CC98B9EAEF53","lastModified":"2024-03-09T08:00:00.000","created":"2020-01-01T00:00:00.000","titles":[{"title":"ACME Widget","lang":"en"}]}}]}`, start)
	}}
	client := newTestClient(t, f, now, "")

	chunks, err := collect(t, client.CPEChunks(context.Background(), now.AddDate(0, 0, -2)))
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "cpe:2.3:a:acme:widget:1.0:*:*:*:*:*:*:*", chunks[0][0].CPEName)
	assert.Equal(t, "cpe:2.3:a:acme:widget:1.1:*:*:*:*:*:*:*", chunks[1][0].CPEName)
	assert.Equal(t, time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC), chunks[0][0].LastModified.Time())
	assert.Equal(t, "10000", f.requests[0].query.Get("resultsPerPage"))
}

func TestNewNVDClientRateLimit(t *testing.T) {
	assert.Equal(t, 5, NewNVDClient(NVDClientOptions{}).limiter.Burst())
	assert.Equal(t, 50, NewNVDClient(NVDClientOptions{APIKey: "secret"}).limiter.Burst())
	assert.Equal(t, rate.Every(6*time.Second), NewNVDClient(NVDClientOptions{}).limiter.Limit())
}
