// Package metric defines the opencensus measures recorded by the prediction
// route and exposes them in the Prometheus text format.
package metric

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

const Namespace = "mlserve"

var (
	KeyStatus = tag.MustNewKey("status")

	PredictLatencyMs = stats.Float64("predict/latency", "Latency of prediction requests", stats.UnitMilliseconds)
	PredictSamples   = stats.Int64("predict/samples", "Number of samples in prediction requests", stats.UnitDimensionless)
)

var Views = []*view.View{
	{
		Name:        "predict/requests",
		Description: "Count of prediction requests by status code",
		Measure:     PredictLatencyMs,
		TagKeys:     []tag.Key{KeyStatus},
		Aggregation: view.Count(),
	},
	{
		Name:        "predict/latency",
		Description: "Distribution of prediction request latency",
		Measure:     PredictLatencyMs,
		TagKeys:     []tag.Key{KeyStatus},
		Aggregation: view.Distribution(1, 2, 5, 10, 25, 50, 100, 250, 500, 1000),
	},
	{
		Name:        "predict/samples",
		Description: "Total number of predicted samples",
		Measure:     PredictSamples,
		Aggregation: view.Sum(),
	},
}

// Register registers the views and returns the Prometheus scrape handler.
func Register() (http.Handler, error) {
	if err := view.Register(Views...); err != nil {
		return nil, fmt.Errorf("register views: %w", err)
	}
	exporter, err := prometheus.NewExporter(prometheus.Options{Namespace: Namespace})
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	return exporter, nil
}

// RecordPredict records one finished prediction request.
func RecordPredict(ctx context.Context, status int, started time.Time, samples int) {
	elapsed := float64(time.Since(started)) / float64(time.Millisecond)
	_ = stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeyStatus, strconv.Itoa(status))},
		PredictLatencyMs.M(elapsed),
	)
	if samples > 0 {
		stats.Record(ctx, PredictSamples.M(int64(samples)))
	}
}
