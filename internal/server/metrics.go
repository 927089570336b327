package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"katydid-common-idgen/pkg/idgen/registry"
	"katydid-common-idgen/pkg/idgen/snowflake"
)

const namespace = "snowflake"

// generatorCollector 遍历注册表，导出每个生成器的计数器
type generatorCollector struct {
	registry *registry.Registry

	ids           *prometheus.Desc
	exhausted     *prometheus.Desc
	clockBackward *prometheus.Desc
	waitSeconds   *prometheus.Desc
}

func newGeneratorCollector(r *registry.Registry) *generatorCollector {
	labels := []string{"worker_id", "data_center_id"}
	return &generatorCollector{
		registry: r,
		ids: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "generator", "ids_total"),
			"Number of IDs generated", labels, nil),
		exhausted: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "generator", "sequence_exhausted_total"),
			"Number of times the per-millisecond sequence space ran out", labels, nil),
		clockBackward: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "generator", "clock_backward_total"),
			"Number of generation attempts refused because the clock moved backward", labels, nil),
		waitSeconds: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "generator", "wait_seconds_total"),
			"Time spent waiting for the next millisecond after sequence exhaustion", labels, nil),
	}
}

func (c *generatorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.ids
	ch <- c.exhausted
	ch <- c.clockBackward
	ch <- c.waitSeconds
}

func (c *generatorCollector) Collect(ch chan<- prometheus.Metric) {
	c.registry.Each(func(key registry.Key, gen *snowflake.Generator) {
		if !gen.MetricsEnabled() {
			return
		}
		m := gen.MetricsSnapshot()
		labels := []string{
			strconv.FormatInt(key.WorkerID, 10),
			strconv.FormatInt(key.DataCenterID, 10),
		}
		ch <- prometheus.MustNewConstMetric(c.ids, prometheus.CounterValue, float64(m.IDCount), labels...)
		ch <- prometheus.MustNewConstMetric(c.exhausted, prometheus.CounterValue, float64(m.SequenceExhausted), labels...)
		ch <- prometheus.MustNewConstMetric(c.clockBackward, prometheus.CounterValue, float64(m.ClockBackward), labels...)
		ch <- prometheus.MustNewConstMetric(c.waitSeconds, prometheus.CounterValue, m.WaitTime.Seconds(), labels...)
	})
}

type metrics struct {
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

func initMetrics(reg prometheus.Registerer, r *registry.Registry) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_latency_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}

	reg.MustRegister(
		m.requests,
		m.latency,
		newGeneratorCollector(r),
	)
	return m
}
