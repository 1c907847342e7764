// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storagepatch"

// Enable switches the process to Prometheus backed meters registered on the default registry.
// Meters obtained before the call stay no-ops.
func Enable() {
	if _, ok := metrics.(*prometheusMetrics); !ok {
		metrics = &prometheusMetrics{}
	}
}

type prometheusMetrics struct {
	meters sync.Map
}

// getOrCreate returns the meter cached under kind and name, creating and registering it on
// first use.
func getOrCreate[T any](o *prometheusMetrics, kind, name string, create func() (prometheus.Collector, T)) T {
	key := kind + "/" + name
	if m, ok := o.meters.Load(key); ok {
		return m.(T)
	}
	collector, meter := create()
	if actual, loaded := o.meters.LoadOrStore(key, meter); loaded {
		return actual.(T)
	}
	if err := prometheus.Register(collector); err != nil {
		log.Warn("unable to register metric", "name", name, "err", err)
	}
	return meter
}

func (o *prometheusMetrics) Counter(name string) CountMeter {
	return getOrCreate(o, "counter", name, func() (prometheus.Collector, CountMeter) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return c, &promCounter{c}
	})
}

func (o *prometheusMetrics) CounterVec(name string, labels []string) CountVecMeter {
	return getOrCreate(o, "countervec", name, func() (prometheus.Collector, CountVecMeter) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return c, &promCounterVec{c}
	})
}

func (o *prometheusMetrics) Gauge(name string) GaugeMeter {
	return getOrCreate(o, "gauge", name, func() (prometheus.Collector, GaugeMeter) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return g, &promGauge{g}
	})
}

func (o *prometheusMetrics) HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return getOrCreate(o, "histogramvec", name, func() (prometheus.Collector, HistogramVecMeter) {
		floatBuckets := make([]float64, 0, len(buckets))
		for _, b := range buckets {
			floatBuckets = append(floatBuckets, float64(b))
		}
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets,
		}, labels)
		return h, &promHistogramVec{h}
	})
}

func (o *prometheusMetrics) Handler() http.Handler {
	return promhttp.Handler()
}

type promCounter struct{ c prometheus.Counter }

func (m *promCounter) Add(i int64) { m.c.Add(float64(i)) }

type promCounterVec struct{ c *prometheus.CounterVec }

func (m *promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	m.c.With(labels).Add(float64(i))
}

type promGauge struct{ g prometheus.Gauge }

func (m *promGauge) Add(i int64) { m.g.Add(float64(i)) }
func (m *promGauge) Set(i int64) { m.g.Set(float64(i)) }

type promHistogramVec struct{ h *prometheus.HistogramVec }

func (m *promHistogramVec) ObserveWithLabels(i int64, labels map[string]string) {
	m.h.With(labels).Observe(float64(i))
}
