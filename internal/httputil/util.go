package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-sod/mlserve/internal/logging"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func DecodeErr(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		syntaxErr      *json.SyntaxError
		unmarshalError *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &syntaxErr):
		RespUnprocessable(ctx, w, "malformed json at position %v", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		RespUnprocessable(ctx, w, "malformed json")
	case errors.As(err, &unmarshalError):
		RespUnprocessable(ctx, w, "invalid value for field %q at position %v, expected %v", unmarshalError.Field, unmarshalError.Offset, unmarshalError.Type)
	case errors.Is(err, io.EOF):
		RespUnprocessable(ctx, w, "body must not be empty")
	case strings.Contains(err.Error(), "http: request body too large"):
		RespJSON(ctx, w, http.StatusRequestEntityTooLarge, ErrorResponse{Detail: "request body too large"})
	default:
		RespInternalError(ctx, w, "failed to decode json: %v", err)
	}
}

// RespJSON writes body as JSON with the given status code.
func RespJSON(ctx context.Context, w http.ResponseWriter, status int, body interface{}) {
	bytes, err := json.Marshal(body)
	if err != nil {
		logging.FromContext(ctx).Errorf("failed to encode output json: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, `{"detail": "failed to encode output json"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(bytes)
}

func RespBadRequest(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	respDetail(ctx, w, http.StatusBadRequest, format, args...)
}

func RespUnprocessable(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	respDetail(ctx, w, http.StatusUnprocessableEntity, format, args...)
}

func RespMethodNotAllowed(ctx context.Context, w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	respDetail(ctx, w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func RespUnsupportedMediaType(ctx context.Context, w http.ResponseWriter, contentType string) {
	respDetail(ctx, w, http.StatusUnsupportedMediaType, "content-type %q is not application/json", contentType)
}

// RespInternalError embeds the message in the response body.
func RespInternalError(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logging.FromContext(ctx).Error(msg)
	RespJSON(ctx, w, http.StatusInternalServerError, ErrorResponse{Detail: msg})
}

func respDetail(ctx context.Context, w http.ResponseWriter, status int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logging.FromContext(ctx).Debug(msg)
	RespJSON(ctx, w, status, ErrorResponse{Detail: msg})
}
