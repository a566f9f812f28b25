package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/saaga0h/jeeves-sunshine/pkg/mqtt"
	"github.com/saaga0h/jeeves-sunshine/pkg/redis"
)

// StatusProvider exposes agent state for the detailed health check
type StatusProvider interface {
	Status() interface{}
}

// StatusFunc adapts a function to StatusProvider
type StatusFunc func() interface{}

// Status calls f
func (f StatusFunc) Status() interface{} {
	return f()
}

// Checker provides health check functionality for agents
type Checker struct {
	mqtt   mqtt.Client
	redis  redis.Client
	agent  StatusProvider
	logger *slog.Logger
}

// NewChecker creates a new health checker with the given dependencies.
// agent may be nil.
func NewChecker(mqttClient mqtt.Client, redisClient redis.Client, agent StatusProvider, logger *slog.Logger) *Checker {
	return &Checker{
		mqtt:   mqttClient,
		redis:  redisClient,
		agent:  agent,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string      `json:"status"`
	Timestamp string      `json:"timestamp"`
	Services  *Services   `json:"services,omitempty"`
	Agent     interface{} `json:"agent,omitempty"`
}

// Services represents the status of external dependencies
type Services struct {
	Redis string `json:"redis"`
	MQTT  string `json:"mqtt"`
}

// HandlerFunc returns a minimal liveness handler.
// Returns 200 if process is alive without checking dependencies.
func (h *Checker) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		}
		h.write(w, http.StatusOK, response)
	}
}

// DetailedHandlerFunc returns a handler that checks all dependencies and
// reports the agent's last published threshold
func (h *Checker) DetailedHandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := &Services{
			Redis: "disconnected",
			MQTT:  "disconnected",
		}

		if h.mqtt != nil && h.mqtt.IsConnected() {
			services.MQTT = "connected"
		}

		if h.redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			if err := h.redis.Ping(ctx); err == nil {
				services.Redis = "connected"
			} else {
				h.logger.Warn("Health check Redis ping failed", "error", err)
			}
			cancel()
		}

		status := "healthy"
		statusCode := http.StatusOK

		if services.Redis == "disconnected" || services.MQTT == "disconnected" {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Services:  services,
		}
		if h.agent != nil {
			response.Agent = h.agent.Status()
		}

		h.write(w, statusCode, response)
	}
}

func (h *Checker) write(w http.ResponseWriter, statusCode int, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode health response", "error", err)
	}
}
