// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package metrics

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/nets/internal/logging"
	"grimm.is/nets/internal/netstat"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics()

	m.ObserveFetch(20*time.Millisecond, 12, nil)
	m.ObserveFetch(5*time.Millisecond, 0, stderrors.New("permission denied"))
	m.ObserveRefresh(4, netstat.Summary{Total: 12, TCP: 9, UDP: 3, Listening: 2}, true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FetchesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchErrors))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.FetchRecords), "failed fetch keeps last count")
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Displayed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Paused))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.Sockets.WithLabelValues("tcp")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Sockets.WithLabelValues("listen")))

	summary, updated, err := m.Snapshot()
	assert.Equal(t, 12, summary.Total)
	assert.False(t, updated.IsZero())
	assert.EqualError(t, err, "permission denied")
}

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics()
	require.NoError(t, m.Register(reg))
	assert.Error(t, m.Register(reg), "duplicate registration")

	m.ObserveRefresh(1, netstat.Summary{Total: 1}, false)
	count, err := testutil.GatherAndCount(reg, "nets_sockets")
	require.NoError(t, err)
	assert.Equal(t, 8, count)
}

func newTestServer(t *testing.T) (*Server, *Metrics) {
	t.Helper()
	m := NewMetrics()
	s, err := NewServer(m, logging.Discard())
	require.NoError(t, err)
	return s, m
}

func TestServer_Routes(t *testing.T) {
	s, m := newTestServer(t)
	m.ObserveFetch(time.Millisecond, 3, nil)
	m.ObserveRefresh(3, netstat.Summary{Total: 3, TCP: 2, UDP: 1}, false)

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "nets_snapshot_fetches_total 1")
	assert.Contains(t, string(body), `nets_sockets{kind="tcp"} 2`)
	assert.Contains(t, string(body), "go_goroutines")

	resp, err = http.Get(ts.URL + "/summary")
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	resp.Body.Close()
	assert.Equal(t, 3.0, summary["total"])
	assert.Equal(t, 1.0, summary["udp"])

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/healthz", "text/plain", strings.NewReader(""))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_HealthDegraded(t *testing.T) {
	s, m := newTestServer(t)
	m.ObserveFetch(time.Millisecond, 0, stderrors.New("netlink: operation not permitted"))

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "operation not permitted")
}

func TestServer_StartShutdown(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, s.Start("127.0.0.1:0"))
	assert.NotEmpty(t, s.Addr())

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}

func TestServer_StartBadAddr(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Error(t, s.Start("256.0.0.1:99999"))
}
