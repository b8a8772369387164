package http

import (
	"net/http"
	"time"

	"github.com/despacholink/expediente/internal/expediente/store"
	"github.com/despacholink/expediente/pkg/httpx"
	"github.com/despacholink/expediente/pkg/portalsdk"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process is up; includes uptime and build version.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	portalsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(version string, startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, portalsdk.HealthResponse{
			Status:  "ok",
			Version: version,
			Uptime:  time.Since(startTime).String(),
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks database connectivity; 503 while the service cannot take traffic.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	portalsdk.HealthResponse	"ready"
//	@Failure		503	{object}	portalsdk.HealthResponse	"not ready"
//	@Router			/readyz [get].
func ReadyzHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, portalsdk.HealthResponse{Status: "degraded"})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, portalsdk.HealthResponse{Status: "ok"})
	}
}
