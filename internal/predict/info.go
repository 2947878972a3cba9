package predict

import (
	"net/http"

	"github.com/go-sod/mlserve/internal/httputil"
	"github.com/go-sod/mlserve/internal/predictor"
)

// NewInfoHandler serves the metadata of the loaded artifact.
func NewInfoHandler(predictor predictor.Predictor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			httputil.RespMethodNotAllowed(ctx, w, http.MethodGet)
			return
		}
		httputil.RespJSON(ctx, w, http.StatusOK, predictor.Info())
	})
}
