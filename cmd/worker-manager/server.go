// cmd/worker-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"field-verification/internal/common/logger"
	"field-verification/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// readinessCheck reports whether one dependency is usable.
type readinessCheck func(ctx context.Context) error

// auditSearcher is satisfied by *audit.Indexer.
type auditSearcher interface {
	FindByApplication(ctx context.Context, applicationID string, size int) ([]models.VerificationRecord, error)
}

type opsServer struct {
	httpServer *http.Server
	router     *mux.Router
	checks     map[string]readinessCheck
	audit      auditSearcher
	logger     logger.Logger
	now        func() time.Time
}

func newOpsServer(addr string, checks map[string]readinessCheck, audit auditSearcher, log logger.Logger) *opsServer {
	s := &opsServer{
		checks: checks,
		audit:  audit,
		logger: log.WithFields(map[string]interface{}{"component": "ops-server"}),
		now:    time.Now,
	}

	s.router = mux.NewRouter()
	s.router.HandleFunc("/health", s.health).Methods("GET")
	s.router.HandleFunc("/ready", s.ready).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/applications/{applicationId}/verifications", s.verifications).Methods("GET")

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *opsServer) Start() {
	go func() {
		s.logger.Info("ops server listening", map[string]interface{}{"address": s.httpServer.Addr})
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("ops server failed", map[string]interface{}{"error": err.Error()})
		}
	}()
}

func (s *opsServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *opsServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   s.now().Format(time.RFC3339),
	})
}

func (s *opsServer) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	results := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": results,
		"time":   s.now().Format(time.RFC3339),
	})
}

func (s *opsServer) verifications(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "audit index disabled"})
		return
	}

	appID := mux.Vars(r)["applicationId"]
	recs, err := s.audit.FindByApplication(r.Context(), appID, 0)
	if err != nil {
		s.logger.Error("audit search failed", map[string]interface{}{
			"applicationId": appID,
			"error":         err.Error(),
		})
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "audit search failed"})
		return
	}
	if recs == nil {
		recs = []models.VerificationRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"applicationId": appID,
		"count":         len(recs),
		"verifications": recs,
	})
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
