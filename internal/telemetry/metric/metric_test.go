package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ObserveOperation(t *testing.T) {
	r := NewRegistry()

	r.ObserveOperation("get", ResultOK, time.Microsecond)
	r.ObserveOperation("get", ResultOK, time.Microsecond)
	r.ObserveOperation("get", ResultNotFound, time.Microsecond)
	r.ObserveOperation("restore", ResultOK, time.Millisecond)
	r.ObserveOperation("restore", ResultNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.OperationsTotal.WithLabelValues("get", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.OperationsTotal.WithLabelValues("get", ResultNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RestoresTotal))
}

func TestRegistry_IndependentInstances(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	a.ObserveOperation("set", ResultOK, 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.OperationsTotal.WithLabelValues("set", ResultOK)))
}

func TestCollector(t *testing.T) {
	c := NewCollector(func() Stats {
		return Stats{Records: 3, Fields: 7, Snapshots: 2}
	})

	expected := `
# HELP snapkv_snapshots Snapshots held by the backup archive.
# TYPE snapkv_snapshots gauge
snapkv_snapshots 2
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "snapkv_snapshots"))
	assert.Equal(t, 3, testutil.CollectAndCount(c))
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(NewCollector(func() Stats { return Stats{Records: 1} }))
	r.ObserveOperation("backup", ResultOK, time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `snapkv_operations_total{op="backup",result="ok"} 1`)
	assert.Contains(t, string(body), "snapkv_records 1")
}

func TestNop(t *testing.T) {
	var rec Recorder = Nop{}
	rec.ObserveOperation("get", ResultOK, time.Second)
}
