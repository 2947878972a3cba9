package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestServerServeHTTPHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv, err := New("127.0.0.1:0", 4)
	if err != nil {
		t.Fatalf("calling the New function, unexpected err: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/health", HandleHealth(ctx))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ServeHTTPHandler(ctx, mux)
	}()

	resp, err := http.Get(fmt.Sprintf("http://%s/health", srv.Addr()))
	if err != nil {
		t.Fatalf("requesting /health, unexpected err: %v", err)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("requesting /health, got: %v %v, expected: 200 map[status:ok]", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("calling the ServeHTTPHandler method, err got: %v, expected: nil", err)
		}
	case <-time.After(2 * shutdownTimeout):
		t.Fatalf("calling the ServeHTTPHandler method, server did not stop after context cancel")
	}
}

func TestServerServeGRPC(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv, err := New("127.0.0.1:0", 0)
	if err != nil {
		t.Fatalf("calling the New function, unexpected err: %v", err)
	}
	grpcSrv, hs := NewGRPCHealth()
	go func() {
		_ = srv.ServeGRPC(ctx, grpcSrv)
	}()

	dialCtx, dialCancel := context.WithTimeout(ctx, 5*time.Second)
	defer dialCancel()
	conn, err := grpc.DialContext(dialCtx, srv.Addr(), grpc.WithInsecure(), grpc.WithBlock())
	if err != nil {
		t.Fatalf("dialing grpc, unexpected err: %v", err)
	}
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	tests := []struct {
		name     string
		set      healthpb.HealthCheckResponse_ServingStatus
		expected healthpb.HealthCheckResponse_ServingStatus
	}{
		{name: "not_serving", set: healthpb.HealthCheckResponse_NOT_SERVING, expected: healthpb.HealthCheckResponse_NOT_SERVING},
		{name: "serving", set: healthpb.HealthCheckResponse_SERVING, expected: healthpb.HealthCheckResponse_SERVING},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hs.SetServingStatus("", test.set)
			resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
			if err != nil {
				t.Fatalf("calling the Check method, unexpected err: %v", err)
			}
			if resp.Status != test.expected {
				t.Errorf("calling the Check method, got: %v, expected: %v", resp.Status, test.expected)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{name: "positive_get", method: http.MethodGet, expectedStatus: http.StatusOK},
		{name: "negative_post", method: http.MethodPost, expectedStatus: http.StatusMethodNotAllowed},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleHealth(context.Background()).ServeHTTP(w, httptest.NewRequest(test.method, "/health", nil))
			if w.Code != test.expectedStatus {
				t.Errorf("calling the ServeHTTP method, status got: %v, expected: %v", w.Code, test.expectedStatus)
			}
		})
	}
}

func TestWithRequestLogger(t *testing.T) {
	h := WithRequestLogger(context.Background(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Errorf("calling the ServeHTTP method, request id header got empty, expected generated id")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc")
	h.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc" {
		t.Errorf("calling the ServeHTTP method, request id header got: %v, expected: abc", got)
	}
}
