package metric

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.opencensus.io/stats/view"
)

func TestRecordPredict(t *testing.T) {
	if err := view.Register(Views...); err != nil {
		t.Fatalf("calling the view.Register function, unexpected err: %v", err)
	}
	defer view.Unregister(Views...)

	ctx := context.Background()
	RecordPredict(ctx, http.StatusOK, time.Now(), 3)
	RecordPredict(ctx, http.StatusOK, time.Now(), 2)
	RecordPredict(ctx, http.StatusBadRequest, time.Now(), 0)

	rows, err := view.RetrieveData("predict/requests")
	if err != nil {
		t.Fatalf("calling the view.RetrieveData function, unexpected err: %v", err)
	}
	counts := map[string]int64{}
	for _, row := range rows {
		counts[row.Tags[0].Value] = row.Data.(*view.CountData).Value
	}
	if counts["200"] != 2 || counts["400"] != 1 {
		t.Errorf("calling the RecordPredict function, counts got: %v, expected: map[200:2 400:1]", counts)
	}

	rows, err = view.RetrieveData("predict/samples")
	if err != nil {
		t.Fatalf("calling the view.RetrieveData function, unexpected err: %v", err)
	}
	if len(rows) != 1 || rows[0].Data.(*view.SumData).Value != 5 {
		t.Errorf("calling the RecordPredict function, samples got: %v, expected: 5", rows)
	}
}
