package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestObservePanelOperation(t *testing.T) {
	Init(nil, zap.NewNop())

	before := testutil.ToFloat64(panelOperationsTotal.WithLabelValues("create", ResultInvalid))
	ObservePanelOperation("create", ResultInvalid, 5*time.Millisecond)
	ObservePanelOperation("create", ResultInvalid, 5*time.Millisecond)
	after := testutil.ToFloat64(panelOperationsTotal.WithLabelValues("create", ResultInvalid))
	assert.Equal(t, before+2, after)

	ObservePanelOperation("", "", time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(panelOperationsTotal.WithLabelValues("unknown", ResultSuccess)))
}

func TestObserveReportExport(t *testing.T) {
	Init(nil, zap.NewNop())

	ObserveReportExport("xlsx", ResultSuccess, time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(reportExportsTotal.WithLabelValues("xlsx", ResultSuccess)))
}

func TestStoredPanels(t *testing.T) {
	calls := 0
	count := func(ctx context.Context) (int, error) {
		calls++
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return 12, nil
	}
	assert.Equal(t, float64(12), storedPanels(count, zap.NewNop()))
	assert.Equal(t, 1, calls)

	failing := func(context.Context) (int, error) { return 0, errors.New("down") }
	assert.Equal(t, float64(0), storedPanels(failing, zap.NewNop()))

	negative := func(context.Context) (int, error) { return -1, nil }
	assert.Equal(t, float64(0), storedPanels(negative, nil))

	assert.Equal(t, float64(0), storedPanels(nil, nil))
}

func TestStoredPanelsGaugeUsesCounter(t *testing.T) {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: "test_panels_stored"}, func() float64 {
		return storedPanels(func(context.Context) (int, error) { return 4, nil }, zap.NewNop())
	})
	assert.Equal(t, float64(4), testutil.ToFloat64(gauge))
}
