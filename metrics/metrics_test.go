// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"math/rand/v2"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	m := noopMetrics{}
	assert.Nil(t, m.Handler())

	m.Counter("c").Add(1)
	m.CounterVec("cv", []string{"op"}).AddWithLabel(1, map[string]string{"nonsense": "fine"})
	m.Gauge("g").Set(3)
	m.HistogramVec("h", []string{"op"}, nil).ObserveWithLabels(1, nil)
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	get := LazyLoad(func() int {
		calls++
		return 7
	})
	assert.Equal(t, 0, calls)
	assert.Equal(t, 7, get())
	assert.Equal(t, 7, get())
	assert.Equal(t, 1, calls)
}

func TestPromMetrics(t *testing.T) {
	Enable()
	Enable()

	count := Counter("count1")
	countVec := CounterVec("countVec1", []string{"zeroOrOne"})
	gauge := LazyLoadGauge("gauge1")
	hist := LazyLoadHistogramVec("hist1", []string{"zeroOrOne"}, BucketLatencyMs)

	count.Add(1)
	n := rand.N(100) + 2 // #nosec G404
	total := 0
	for i := range n {
		Counter("count2").Add(1)
		labels := map[string]string{"zeroOrOne": strconv.Itoa(i % 2)}
		countVec.AddWithLabel(int64(i), labels)
		hist().ObserveWithLabels(int64(i), labels)
		total += i
	}
	gauge().Set(42)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	assert.Equal(t, float64(1), byName["storagepatch_count1"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(n), byName["storagepatch_count2"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(42), byName["storagepatch_gauge1"].Metric[0].GetGauge().GetValue())

	sum := 0.0
	for _, m := range byName["storagepatch_countVec1"].Metric {
		sum += m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(total), sum)
	assert.Len(t, byName["storagepatch_hist1"].Metric, 2)

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()
	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "storagepatch_count1 1")
}
