package server

import (
	"context"
	"errors"
	"fed_core/shared"
	"github.com/gorilla/mux"
	"go.uber.org/fx"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"
)

const (
	strCacheControlHdr = "Cache-Control"
	readHeaderTimeout  = 10 * time.Second
	writeTimeout       = 30 * time.Second
	idleTimeout        = 2 * time.Minute
)

func NewHTTPServer(cfg *shared.Config, logger shared.ILogger, lc fx.Lifecycle, router *mux.Router) *http.Server {
	srv := &http.Server{
		Addr:              ":" + strconv.FormatUint(uint64(cfg.ServicePort), 10),
		Handler:           recoverMW(logger, canonicalPathMW(router)),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			listener, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Printf("Federation endpoint listening at %v for host %s", srv.Addr, cfg.Host)
			go func() {
				if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Errorf("HTTP server stopped: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Printf("Shutting down HTTP server")
			return srv.Shutdown(ctx)
		},
	})
	return srv
}

// Remote servers are inconsistent about trailing slashes on actor and inbox URLs.
func canonicalPathMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) > 1 {
			r.URL.Path = strings.TrimRight(r.URL.Path, "/")
		}
		next.ServeHTTP(w, r)
	})
}

func recoverMW(logger shared.ILogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Errorf("Panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func NewMux(groups []IHandlerGroup, logger shared.ILogger) *mux.Router {
	router := mux.NewRouter()
	for _, group := range groups {
		sub := router.PathPrefix(group.Prefix()).Subrouter()
		sub.Use(noCacheMW, group.AuthMW())
		for _, def := range group.GroupDefs() {
			sub.HandleFunc(def.pattern, def.handler).Methods(http.MethodOptions, def.method)
		}
	}
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Infof("%s request for unknown path: %s", r.Method, r.URL.Path)
		writeErrorResponse(w, notFoundStr, http.StatusNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Infof("%s not allowed on %s", r.Method, r.URL.Path)
		writeErrorResponse(w, methodNotAllowedStr, http.StatusMethodNotAllowed)
	})
	return router
}

func noCacheMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set(strCacheControlHdr, "no-cache, no-store, must-revalidate")
		hdr.Set("Pragma", "no-cache")
		hdr.Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}
