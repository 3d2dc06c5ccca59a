package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveOperation(t *testing.T) {
	counter := OperationsTotal.WithLabelValues("reorder", "transient", "ok")
	before := testutil.ToFloat64(counter)

	ObserveOperation("reorder", "transient", "ok", time.Now())

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("expected counter %v, got %v", before+1, got)
	}
}

func TestObserveContent(t *testing.T) {
	failures := ContentOperationsTotal.WithLabelValues("put", "failure")
	before := testutil.ToFloat64(failures)

	ObserveContent("put", errors.New("disk full"))
	ObserveContent("put", nil)

	if got := testutil.ToFloat64(failures); got != before+1 {
		t.Errorf("expected %v failures, got %v", before+1, got)
	}
}
