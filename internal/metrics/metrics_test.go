package metrics

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWrite_IncludesObservedSeries(t *testing.T) {
	ObserveProbe("timeout", 3*time.Second)
	ObserveStorage("load", errors.New("boom"))
	ObserveOpen()
	ObserveSelection()

	var buf bytes.Buffer
	Write(&buf)
	out := buf.String()
	for _, want := range []string{
		`endpointkit_probes_total{outcome="timeout"}`,
		`endpointkit_storage_ops_total{op="load",result="error"}`,
		`endpointkit_db_opens_total`,
		`endpointkit_selections_total`,
		`endpointkit_probe_duration_seconds_bucket`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in exposition", want)
		}
	}
}
