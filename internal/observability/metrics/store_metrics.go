package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const countTimeout = 2 * time.Second

// PanelCounter returns the number of panels in the store.
type PanelCounter func(ctx context.Context) (int, error)

func registerStoreMetrics(count PanelCounter, logger *zap.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "panels_stored",
			Help: "Solar panels currently stored",
		},
		func() float64 {
			return storedPanels(count, logger)
		},
	))
}

func storedPanels(count PanelCounter, logger *zap.Logger) float64 {
	if count == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), countTimeout)
	defer cancel()
	n, err := count(ctx)
	if err != nil {
		if logger != nil {
			logger.Warn("panel count for metrics failed", zap.Error(err))
		}
		return 0
	}
	if n < 0 {
		return 0
	}
	return float64(n)
}
