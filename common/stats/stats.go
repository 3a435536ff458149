// Package stats wraps go-metrics behind the few instruments the simulator
// records: counters, int and float gauges, histograms and latencies. A
// receiver namespaces its instruments with Scope and renders its registry
// as finagle style JSON for the admin endpoint.
//
// Original license: github.com/rcrowley/go-metrics/blob/master/LICENSE
//
package stats

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
)

// For testing.
var Now = time.Now

const sampleSize = 1000

// MarshalerPretty is implemented by registries that can render indented JSON.
type MarshalerPretty interface {
	MarshalJSONPretty() ([]byte, error)
}

// StatsRegistry is the part of a go-metrics registry a receiver needs.
type StatsRegistry interface {
	GetOrRegister(string, interface{}) interface{}
	Each(func(string, interface{}))
}

// StatsReceiver hands out named instruments backed by one registry.
//
// Names are joined with '/'; a '/' inside one element becomes "_SLASH_" so
// a caller cannot add levels by accident.
type StatsReceiver interface {
	// Scope returns a receiver that prefixes every name with scope:
	//
	//   stat.Scope("scheduler").Counter("admittedCounter")
	//
	// registers "scheduler/admittedCounter".
	Scope(scope ...string) StatsReceiver

	Counter(name ...string) Counter
	Gauge(name ...string) Gauge
	GaugeFloat(name ...string) GaugeFloat
	Histogram(name ...string) Histogram

	// Latency is a histogram of elapsed times, rendered in milliseconds.
	Latency(name ...string) Latency

	// Render marshals the whole registry, not only this receiver's scope.
	Render(pretty bool) []byte
}

// DefaultStatsReceiver is backed by a fresh finagle registry.
func DefaultStatsReceiver() StatsReceiver {
	return NewCustomStatsReceiver(NewFinagleStatsRegistry)
}

// NewCustomStatsReceiver uses the registry returned by makeRegistry, or a
// plain go-metrics registry when makeRegistry is nil.
func NewCustomStatsReceiver(makeRegistry func() StatsRegistry) StatsReceiver {
	if makeRegistry == nil {
		makeRegistry = func() StatsRegistry { return metrics.NewRegistry() }
	}
	return &defaultStatsReceiver{registry: makeRegistry()}
}

type defaultStatsReceiver struct {
	registry StatsRegistry
	scope    []string
}

func (s *defaultStatsReceiver) Scope(scope ...string) StatsReceiver {
	return &defaultStatsReceiver{registry: s.registry, scope: s.scoped(scope...)}
}

func (s *defaultStatsReceiver) Counter(name ...string) Counter {
	return s.registry.GetOrRegister(s.scopedName(name...), NewCounter).(Counter)
}

func (s *defaultStatsReceiver) Gauge(name ...string) Gauge {
	return s.registry.GetOrRegister(s.scopedName(name...), NewGauge).(Gauge)
}

func (s *defaultStatsReceiver) GaugeFloat(name ...string) GaugeFloat {
	return s.registry.GetOrRegister(s.scopedName(name...), NewGaugeFloat).(GaugeFloat)
}

func (s *defaultStatsReceiver) Histogram(name ...string) Histogram {
	return s.registry.GetOrRegister(s.scopedName(name...), NewHistogram).(Histogram)
}

func (s *defaultStatsReceiver) Latency(name ...string) Latency {
	return s.registry.GetOrRegister(s.scopedName(name...), NewLatency).(Latency)
}

func (s *defaultStatsReceiver) Render(pretty bool) []byte {
	var err error
	var bytes []byte
	if mp, ok := s.registry.(MarshalerPretty); ok && pretty {
		bytes, err = mp.MarshalJSONPretty()
	} else {
		bytes, err = json.Marshal(s.registry)
	}
	if err != nil {
		log.Errorf("couldn't render stats registry: %v", err)
		return []byte{}
	}
	return bytes
}

func (s *defaultStatsReceiver) scoped(scope ...string) []string {
	out := make([]string, 0, len(s.scope)+len(scope))
	out = append(out, s.scope...)
	for _, sc := range scope {
		out = append(out, strings.Replace(sc, "/", "_SLASH_", -1))
	}
	return out
}

func (s *defaultStatsReceiver) scopedName(name ...string) string {
	return strings.Join(s.scoped(name...), "/")
}

// NilStatsReceiver discards everything recorded through it.
func NilStatsReceiver() StatsReceiver {
	return nilStatsReceiver{}
}

type nilStatsReceiver struct{}

func (s nilStatsReceiver) Scope(scope ...string) StatsReceiver { return s }
func (s nilStatsReceiver) Counter(name ...string) Counter {
	return &metricCounter{metrics.NilCounter{}}
}
func (s nilStatsReceiver) Gauge(name ...string) Gauge {
	return &metricGauge{metrics.NilGauge{}}
}
func (s nilStatsReceiver) GaugeFloat(name ...string) GaugeFloat {
	return &metricGaugeFloat{metrics.NilGaugeFloat64{}}
}
func (s nilStatsReceiver) Histogram(name ...string) Histogram {
	return &metricHistogram{metrics.NilHistogram{}}
}
func (s nilStatsReceiver) Latency(name ...string) Latency { return nilLatency{} }
func (s nilStatsReceiver) Render(pretty bool) []byte      { return []byte{} }

// Instrument constructors, handed to GetOrRegister so registration is lazy.
var (
	NewCounter    = func() Counter { return &metricCounter{metrics.NewCounter()} }
	NewGauge      = func() Gauge { return &metricGauge{metrics.NewGauge()} }
	NewGaugeFloat = func() GaugeFloat { return &metricGaugeFloat{metrics.NewGaugeFloat64()} }
	NewHistogram  = func() Histogram {
		return &metricHistogram{metrics.NewHistogram(metrics.NewUniformSample(sampleSize))}
	}
	NewLatency = func() Latency {
		return &metricLatency{Histogram: metrics.NewHistogram(metrics.NewUniformSample(sampleSize))}
	}
)

type Counter interface {
	Count() int64
	Inc(int64)
}
type metricCounter struct{ metrics.Counter }

type Gauge interface {
	Update(int64)
	Value() int64
}
type metricGauge struct{ metrics.Gauge }

type GaugeFloat interface {
	Update(float64)
	Value() float64
}
type metricGaugeFloat struct{ metrics.GaugeFloat64 }

// HistogramView is the read side of a histogram snapshot.
type HistogramView interface {
	Mean() float64
	Count() int64
	Max() int64
	Min() int64
	Sum() int64
	Percentiles(ps []float64) []float64
}

type Histogram interface {
	HistogramView
	Update(int64)
}
type metricHistogram struct{ metrics.Histogram }

// Latency samples elapsed nanoseconds: defer stat.Latency("x").Time().Stop()
type Latency interface {
	Time() Latency
	Stop()
}
type metricLatency struct {
	metrics.Histogram
	start time.Time
}

func (l *metricLatency) Time() Latency { l.start = Now(); return l }
func (l *metricLatency) Stop()         { l.Update(Now().Sub(l.start).Nanoseconds()) }

type nilLatency struct{}

func (l nilLatency) Time() Latency { return l }
func (l nilLatency) Stop()         {}

// finagleStatsRegistry renders flat finagle style names, expanding every
// histogram into .avg .count .max .min .sum and percentile entries.
type finagleStatsRegistry struct {
	metrics.Registry
}

func NewFinagleStatsRegistry() StatsRegistry {
	return &finagleStatsRegistry{metrics.NewRegistry()}
}

type jsonMap map[string]interface{}

func (r *finagleStatsRegistry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.MarshalAll())
}
func (r *finagleStatsRegistry) MarshalJSONPretty() ([]byte, error) {
	return json.MarshalIndent(r.MarshalAll(), "", "  ")
}
func (r *finagleStatsRegistry) MarshalAll() jsonMap {
	data := jsonMap{}
	r.Each(func(name string, i interface{}) {
		switch stat := i.(type) {
		case *metricLatency:
			marshalHistogram(data, name, stat.Histogram.Snapshot(), time.Millisecond)
		case *metricHistogram:
			marshalHistogram(data, name, stat.Histogram.Snapshot(), 1)
		case Counter:
			data[name] = stat.Count()
		case Gauge:
			data[name] = stat.Value()
		case GaugeFloat:
			data[name] = stat.Value()
		default:
			log.Info("Unrecognized marshal instrument: ", name, i)
		}
	})
	return data
}

func marshalHistogram(data jsonMap, name string, hist HistogramView, precision time.Duration) {
	f64p := float64(precision)
	i64p := int64(precision)
	data[name+".avg"] = hist.Mean() / f64p
	data[name+".count"] = hist.Count()
	data[name+".max"] = hist.Max() / i64p
	data[name+".min"] = hist.Min() / i64p
	data[name+".sum"] = hist.Sum() / i64p

	pctls := hist.Percentiles(defaultPercentiles)
	for i, pctl := range pctls {
		data[name+"."+defaultPercentileLabels[i]] = pctl / f64p
	}
}

var defaultPercentiles = []float64{0.5, 0.9, 0.99}
var defaultPercentileLabels = []string{"p50", "p90", "p99"}
