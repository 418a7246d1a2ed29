// Package stats counts processed elements and written rows.
package stats

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	elementsName = "osmcsv_elements_total"
	rowsName     = "osmcsv_rows_total"
	loadedName   = "osmcsv_loaded_rows_total"
)

// Metrics are the counters of one process. All methods are safe to call on
// a nil *Metrics.
type Metrics struct {
	Registry *prometheus.Registry
	Elements *prometheus.CounterVec
	Rows     *prometheus.CounterVec
	Loaded   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Elements: f.NewCounterVec(prometheus.CounterOpts{
			Name: elementsName,
			Help: "Number of elements read, by kind",
		}, []string{"kind"}),
		Rows: f.NewCounterVec(prometheus.CounterOpts{
			Name: rowsName,
			Help: "Number of CSV rows written, by table",
		}, []string{"table"}),
		Loaded: f.NewCounterVec(prometheus.CounterOpts{
			Name: loadedName,
			Help: "Number of rows loaded into the database, by table",
		}, []string{"table"}),
	}
}

func (m *Metrics) AddElement(kind string) {
	if m == nil {
		return
	}
	m.Elements.WithLabelValues(kind).Inc()
}

func (m *Metrics) AddRows(table string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.Rows.WithLabelValues(table).Add(float64(n))
}

func (m *Metrics) AddLoaded(table string, n int) {
	if m == nil {
		return
	}
	m.Loaded.WithLabelValues(table).Add(float64(n))
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Counts returns the current values of the counter vector name by label.
func (m *Metrics) Counts(name string) map[string]int64 {
	counts := make(map[string]int64)
	if m == nil {
		return counts
	}
	mfs, err := m.Registry.Gather()
	if err != nil {
		return counts
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			label := ""
			if l := metric.GetLabel(); len(l) > 0 {
				label = l[0].GetValue()
			}
			counts[label] = int64(metric.GetCounter().GetValue())
		}
	}
	return counts
}

// Summary returns a one line overview of the read elements and written
// rows, e.g. "elements: 1,200 node, 30 way; rows: 1,200 nodes, ...".
func (m *Metrics) Summary() string {
	parts := []string{}
	for _, section := range []struct{ title, name string }{
		{"elements", elementsName},
		{"rows", rowsName},
		{"loaded", loadedName},
	} {
		counts := m.Counts(section.name)
		if len(counts) == 0 {
			continue
		}
		parts = append(parts, section.title+": "+formatCounts(counts))
	}
	if len(parts) == 0 {
		return "nothing processed"
	}
	return strings.Join(parts, "; ")
}

func formatCounts(counts map[string]int64) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]string, len(keys))
	for i, k := range keys {
		fields[i] = fmt.Sprintf("%s %s", humanize.Comma(counts[k]), k)
	}
	return strings.Join(fields, ", ")
}
