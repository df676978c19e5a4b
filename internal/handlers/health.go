package handlers

import (
	"context"
	"errors"

	"github.com/serroba/pocketlink/internal/kv"
)

// HealthChecker defines the interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// SubstrateHealthChecker adapts a kv.Store to HealthChecker.
type SubstrateHealthChecker struct {
	store kv.Store
}

// NewSubstrateHealthChecker creates a substrate health checker.
func NewSubstrateHealthChecker(store kv.Store) *SubstrateHealthChecker {
	return &SubstrateHealthChecker{store: store}
}

// Ping probes the substrate. A missing key means the substrate is
// reachable and healthy.
func (s *SubstrateHealthChecker) Ping(ctx context.Context) error {
	_, err := s.store.Get(ctx, "health_probe")
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil
	}

	return err
}

// HealthHandler handles health check operations.
type HealthHandler struct {
	storage HealthChecker
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(storage HealthChecker) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Body struct {
		Status  string `json:"status"`
		Storage string `json:"storage"`
	}
}

// Check reports the health of the application and its substrate.
func (h *HealthHandler) Check(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "ok"

	if err := h.storage.Ping(ctx); err != nil {
		resp.Body.Storage = "unhealthy"
		resp.Body.Status = "degraded"
	} else {
		resp.Body.Storage = "healthy"
	}

	return resp, nil
}
