package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mlserve "github.com/go-sod/mlserve/internal/config"
	"github.com/go-sod/mlserve/internal/metric"
	"github.com/go-sod/mlserve/internal/predict"
	"github.com/go-sod/mlserve/internal/predictor"
)

type stubPredictor struct {
	features int
}

func (s *stubPredictor) NumFeatures() int {
	return s.features
}

func (s *stubPredictor) Predict(samples [][]float64) ([]float64, error) {
	out := make([]float64, len(samples))
	for i := range samples {
		if samples[i][0] > 0 {
			out[i] = 1
		}
	}
	return out, nil
}

func (s *stubPredictor) Info() predictor.Info {
	return predictor.Info{ID: "stub", Algorithm: predictor.AlgTypeLogReg, NumFeatures: s.features}
}

func testConfig(features int) *mlserve.Config {
	return &mlserve.Config{Predict: predict.Config{NumFeatures: features}}
}

func TestNewRouter(t *testing.T) {
	metricsHandler, err := metric.Register()
	if err != nil {
		t.Fatalf("calling the metric.Register function, unexpected err: %v", err)
	}
	router, err := newRouter(context.Background(), testConfig(8), &stubPredictor{features: 8}, metricsHandler)
	if err != nil {
		t.Fatalf("calling the newRouter function, unexpected err: %v", err)
	}
	srv := httptest.NewServer(router)
	defer srv.Close()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "health",
			method:         http.MethodGet,
			path:           "/health",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok"}`,
		},
		{
			name:           "predict",
			method:         http.MethodPost,
			path:           "/predict",
			body:           `{"data": [[1, 2, 3, 4, 5, 6, 7, 8], [-1, 2, 3, 4, 5, 6, 7, 8]]}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"predictions":[1,0]}`,
		},
		{
			name:           "predict_bad_request",
			method:         http.MethodPost,
			path:           "/predict",
			body:           `{"data": [[1, 2]]}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"detail":"Invalid input data. Expected 8 features, but got 2."}`,
		},
		{
			name:           "model",
			method:         http.MethodGet,
			path:           "/model",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "metrics",
			method:         http.MethodGet,
			path:           "/metrics",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown_path",
			method:         http.MethodGet,
			path:           "/train",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req, err := http.NewRequest(test.method, srv.URL+test.path, strings.NewReader(test.body))
			if err != nil {
				t.Fatal(err)
			}
			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Fatalf("calling %s %s, unexpected err: %v", test.method, test.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != test.expectedStatus {
				t.Fatalf("calling %s %s, status got: %v, expected: %v", test.method, test.path, resp.StatusCode, test.expectedStatus)
			}
			if resp.Header.Get("X-Request-Id") == "" {
				t.Errorf("calling %s %s, request id header got empty, expected value", test.method, test.path)
			}
			if test.expectedBody != "" {
				var got, expected interface{}
				if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
					t.Fatalf("calling %s %s, invalid json: %v", test.method, test.path, err)
				}
				if err := json.Unmarshal([]byte(test.expectedBody), &expected); err != nil {
					t.Fatal(err)
				}
				gotBytes, _ := json.Marshal(got)
				expectedBytes, _ := json.Marshal(expected)
				if string(gotBytes) != string(expectedBytes) {
					t.Errorf("calling %s %s, body got: %s, expected: %s", test.method, test.path, gotBytes, expectedBytes)
				}
			}
		})
	}
}

func TestNewRouterFeatureMismatch(t *testing.T) {
	_, err := newRouter(context.Background(), testConfig(8), &stubPredictor{features: 5}, http.NotFoundHandler())
	if err == nil {
		t.Fatalf("calling the newRouter function, err got: nil, expected error")
	}
	expected := "model expects 5 features, but MLSERVE_NUM_FEATURES is 8"
	if err.Error() != expected {
		t.Errorf("calling the newRouter function, err got: %v, expected: %v", err, expected)
	}
}
