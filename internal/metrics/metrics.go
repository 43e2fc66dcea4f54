// Package metrics exposes process counters in Prometheus text format.
package metrics

import (
	"fmt"
	"io"
	"time"

	vm "github.com/VictoriaMetrics/metrics"
)

var (
	probeDuration = vm.NewHistogram("endpointkit_probe_duration_seconds")
	dbOpens       = vm.NewCounter("endpointkit_db_opens_total")
	selections    = vm.NewCounter("endpointkit_selections_total")
)

// ObserveProbe records one settled probe.
func ObserveProbe(outcome string, d time.Duration) {
	vm.GetOrCreateCounter(fmt.Sprintf(`endpointkit_probes_total{outcome=%q}`, outcome)).Inc()
	probeDuration.Update(d.Seconds())
}

// ObserveSelection counts one completed selection round.
func ObserveSelection() { selections.Inc() }

// ObserveOpen counts one underlying database open.
func ObserveOpen() { dbOpens.Inc() }

// ObserveStorage records a storage operation and whether it succeeded.
func ObserveStorage(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	vm.GetOrCreateCounter(fmt.Sprintf(`endpointkit_storage_ops_total{op=%q,result=%q}`, op, result)).Inc()
}

// Write dumps every registered metric, plus Go process metrics.
func Write(w io.Writer) {
	vm.WritePrometheus(w, true)
}
