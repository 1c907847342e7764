// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes process wide meters. Until Enable is called every meter is a no-op.
package metrics

import (
	"net/http"
	"sync"
)

var metrics = Metrics(noopMetrics{})

// Metrics creates and caches meters by name.
type Metrics interface {
	Counter(name string) CountMeter
	CounterVec(name string, labels []string) CountVecMeter
	Gauge(name string) GaugeMeter
	HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	Handler() http.Handler
}

// HTTPHandler returns the handler serving the collected metrics. It is nil while metrics are
// disabled.
func HTTPHandler() http.Handler {
	return metrics.Handler()
}

// BucketLatencyMs suits backend round trips measured in milliseconds.
var BucketLatencyMs = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}

// CountMeter only goes up.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter is a CountMeter partitioned by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter holds a value that can go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

// HistogramVecMeter aggregates observations into buckets, partitioned by labels.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

func Counter(name string) CountMeter { return metrics.Counter(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.CounterVec(name, labels)
}

func Gauge(name string) GaugeMeter { return metrics.Gauge(name) }

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return metrics.HistogramVec(name, labels, buckets)
}

// LazyLoad defers creating a meter to its first use, so package level meters can be declared
// before Enable picks the implementation.
func LazyLoad[T any](f func() T) func() T {
	var (
		result T
		once   sync.Once
	)
	return func() T {
		once.Do(func() { result = f() })
		return result
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}
