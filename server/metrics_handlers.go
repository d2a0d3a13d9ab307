package server

import (
	"crypto/subtle"
	"fed_core/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

// Serves the Prometheus scrape endpoint behind a bearer secret.
type metricsHandlerGroup struct {
	cfg     *shared.Config
	logger  shared.ILogger
	handler http.Handler
}

func NewMetricsHandlerGroup(cfg *shared.Config, logger shared.ILogger) IHandlerGroup {
	return &metricsHandlerGroup{
		cfg:    cfg,
		logger: logger,
		handler: promhttp.InstrumentMetricHandler(
			prometheus.DefaultRegisterer,
			promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
				ErrorHandling: promhttp.ContinueOnError,
			}),
		),
	}
}

func (hg *metricsHandlerGroup) Prefix() string {
	return ""
}

func (hg *metricsHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/metrics", hg.handler.ServeHTTP},
	}
}

func (hg *metricsHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hg.authorized(r) {
				hg.logger.Warnf("Rejected metrics scrape from %s", r.RemoteAddr)
				writeErrorResponse(w, badAuthorization, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (hg *metricsHandlerGroup) authorized(r *http.Request) bool {
	expected := hg.cfg.Secrets.MetricsAuth
	got, ok := bearerToken(r)
	if !ok || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}
