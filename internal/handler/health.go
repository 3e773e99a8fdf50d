// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/naby001/admin-panel/internal/store"
)

// HealthHandler serves the health probes.
type HealthHandler struct {
	mongo     *store.Store
	ops       *sql.DB
	version   string
	startTime time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(mongo *store.Store, ops *sql.DB, version string) *HealthHandler {
	return &HealthHandler{
		mongo:     mongo,
		ops:       ops,
		version:   version,
		startTime: time.Now(),
	}
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// HealthStatus represents the overall health response.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	mongoCheck := h.checkMongo(r)
	opsCheck := h.checkOps()

	status := "healthy"
	code := http.StatusOK
	if mongoCheck.Status != "healthy" || opsCheck.Status != "healthy" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks: map[string]Check{
			"mongo": mongoCheck,
			"ops":   opsCheck,
		},
	})
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - checks if the service can reach the
// registration database.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if check := h.checkMongo(r); check.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *HealthHandler) checkMongo(r *http.Request) Check {
	start := time.Now()
	err := h.mongo.Ping(r.Context())
	latency := time.Since(start)

	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: "healthy", Message: "Connected", Latency: latency.String()}
}

func (h *HealthHandler) checkOps() Check {
	start := time.Now()
	err := h.ops.Ping()
	latency := time.Since(start)

	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: "healthy", Message: "Connected", Latency: latency.String()}
}
