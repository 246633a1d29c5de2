package hostapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alttpo/trex"
)

func newTestContext() *trex.Context {
	ctx := trex.NewContext(8, 100, nil)
	m := trex.NewMachine(2, 1)
	m.Handlers = []trex.Handler{{Code: []byte{1 /* RET */}}}
	ctx.AddMachine(m)
	ctx.MachineVerify(m)
	return ctx
}

func TestStatusEndpointReportsMachines(t *testing.T) {
	ctx := newTestContext()
	srv := NewServer(ctx, Config{}, nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var view statusView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, 1, view.MachineCount)
	assert.Equal(t, "ready", view.Machines[0].ExecStatus)
}

func TestMachineEndpointByIndexAndTraceID(t *testing.T) {
	ctx := newTestContext()
	srv := NewServer(ctx, Config{}, nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/machines/0")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var view machineView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, ctx.Machines[0].TraceID.String(), view.TraceID)

	resp2, err := http.Get(ts.URL + "/machines/" + view.TraceID)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestMachineEndpointUnknownID(t *testing.T) {
	ctx := newTestContext()
	srv := NewServer(ctx, Config{}, nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/machines/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRateLimitRejectsBurst(t *testing.T) {
	ctx := newTestContext()
	srv := NewServer(ctx, Config{RateLimitPerSec: 1}, nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	var sawLimited bool
	for i := 0; i < 5; i++ {
		resp, err := http.Get(ts.URL + "/status")
		require.NoError(t, err)
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			sawLimited = true
			break
		}
	}
	assert.True(t, sawLimited, "expected at least one request to be rate limited")
}
