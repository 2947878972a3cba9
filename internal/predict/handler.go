package predict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-sod/mlserve/internal/httputil"
	"github.com/go-sod/mlserve/internal/logging"
	"github.com/go-sod/mlserve/internal/metric"
	"github.com/go-sod/mlserve/internal/predictor"
)

const maxBodyBytes = 64 * 1024 * 1024

type request struct {
	Data *[][]*float64 `json:"data"`
}

type response struct {
	Predictions []float64 `json:"predictions"`
}

func NewHandler(cfg *Config, predictor predictor.Predictor) (http.Handler, error) {
	if cfg.NumFeatures <= 0 {
		return nil, fmt.Errorf("number of features must be positive, got %d", cfg.NumFeatures)
	}
	return &handler{
		cfg:       cfg,
		predictor: predictor,
	}, nil
}

type handler struct {
	predictor predictor.Predictor
	cfg       *Config
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		req     request
		samples int
		started = time.Now()
	)
	ctx := r.Context()
	rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		metric.RecordPredict(ctx, rec.status, started, samples)
	}()
	w = rec

	if r.Method != http.MethodPost {
		httputil.RespMethodNotAllowed(ctx, w, http.MethodPost)
		return
	}

	if t := r.Header.Get("Content-Type"); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err != nil || mediaType != "application/json" {
			httputil.RespUnsupportedMediaType(ctx, w, t)
			return
		}
	}

	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	d := json.NewDecoder(r.Body)
	if err := d.Decode(&req); err != nil {
		httputil.DecodeErr(ctx, w, err)
		return
	}
	var extra json.RawMessage
	if err := d.Decode(&extra); !errors.Is(err, io.EOF) {
		httputil.RespUnprocessable(ctx, w, "malformed json: unexpected data after the request body")
		return
	}
	if req.Data == nil {
		httputil.RespUnprocessable(ctx, w, "field required: data")
		return
	}

	data, msg := samplesFrom(*req.Data)
	if msg != "" {
		httputil.RespUnprocessable(ctx, w, "%s", msg)
		return
	}
	for _, sample := range data {
		if len(sample) != h.cfg.NumFeatures {
			httputil.RespBadRequest(ctx, w,
				"Invalid input data. Expected %d features, but got %d.", h.cfg.NumFeatures, len(sample),
			)
			return
		}
	}

	predictions, err := h.predict(ctx, data)
	if err != nil {
		httputil.RespInternalError(ctx, w, "An error occurred: %v", err)
		return
	}
	samples = len(predictions)

	httputil.RespJSON(ctx, w, http.StatusOK, response{Predictions: predictions})
}

// samplesFrom rejects null samples and null feature values, which the decoder
// would otherwise turn into empty rows and zeros.
func samplesFrom(raw [][]*float64) ([][]float64, string) {
	data := make([][]float64, len(raw))
	for i, sample := range raw {
		if sample == nil {
			return nil, fmt.Sprintf("data.%d: none is not an allowed value", i)
		}
		row := make([]float64, len(sample))
		for j, value := range sample {
			if value == nil {
				return nil, fmt.Sprintf("data.%d.%d: none is not an allowed value", i, j)
			}
			row[j] = *value
		}
		data[i] = row
	}
	return data, ""
}

// predict converts a panic inside the model into an error.
func (h *handler) predict(ctx context.Context, data [][]float64) (predictions []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Errorf("predictor panic: %v", r)
			err = fmt.Errorf("%v", r)
		}
	}()

	predictions, err = h.predictor.Predict(data)
	if err != nil {
		return nil, err
	}
	if predictions == nil {
		predictions = []float64{}
	}
	if len(predictions) != len(data) {
		return nil, fmt.Errorf("predictor returned %d predictions for %d samples", len(predictions), len(data))
	}
	return predictions, nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
