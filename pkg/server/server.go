// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/consensys/go-bits/pkg/bits"
	"github.com/consensys/go-bits/pkg/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Name of the tracer used for decode spans.
const tracerName = "github.com/consensys/go-bits/pkg/server"

// Server is an HTTP service which decodes and evaluates transmissions posted
// to it as hex digits.
type Server struct {
	cfg     *config.Config
	decoder *bits.Decoder
	cache   *cache
	metrics *metrics
	tracer  trace.Tracer
	router  chi.Router
}

// New constructs a decode service for the given configuration, registering its
// metrics with (and exposing them from) the given registry.
func New(cfg *config.Config, registry *prometheus.Registry) *Server {
	s := &Server{
		cfg:     cfg,
		decoder: cfg.Decoder(),
		cache:   newCache(cfg.Server.CacheEntries),
		metrics: newMetrics(registry),
		tracer:  otel.Tracer(tracerName),
		router:  chi.NewRouter(),
	}
	//
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	//
	s.router.Post("/v1/decode", s.handleDecode)
	s.router.Get("/healthz", handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	//
	return s
}

// Handler returns the HTTP handler for this service.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs this service on the configured address until the given
// context is cancelled, at which point in-flight requests are given a short
// grace period to complete.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Address,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	//
	errc := make(chan error, 1)
	//
	go func() {
		log.Infof("decode service listening on %s", s.cfg.Server.Address)
		errc <- srv.ListenAndServe()
	}()
	//
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		//
		log.Info("decode service shutting down")
		//
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		// ListenAndServe always returns ErrServerClosed after Shutdown
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		//
		return nil
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// requestLogger logs each request once it has completed.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			start = time.Now()
			ww    = middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		)
		//
		next.ServeHTTP(ww, r)
		//
		log.WithFields(log.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"elapsed":    time.Since(start),
		}).Debug("request")
	})
}
