package health

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saaga0h/jeeves-sunshine/internal/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestHandlerFunc(t *testing.T) {
	checker := NewChecker(nil, nil, nil, testLogger())

	rec := httptest.NewRecorder()
	checker.HandlerFunc()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Nil(t, response.Services)
}

func TestDetailedHandlerFunc(t *testing.T) {
	tests := []struct {
		name       string
		mqttUp     bool
		redisErr   error
		wantCode   int
		wantStatus string
	}{
		{"all connected", true, nil, http.StatusOK, "healthy"},
		{"mqtt down", false, nil, http.StatusServiceUnavailable, "degraded"},
		{"redis down", true, errors.New("connection refused"), http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mqttClient := &mocks.MQTTClient{}
			mqttClient.On("IsConnected").Return(tt.mqttUp)
			redisClient := &mocks.RedisClient{}
			redisClient.On("Ping", mock.Anything).Return(tt.redisErr)

			agent := StatusFunc(func() interface{} {
				return map[string]float64{"value": 40000}
			})

			checker := NewChecker(mqttClient, redisClient, agent, testLogger())

			rec := httptest.NewRecorder()
			checker.DetailedHandlerFunc()(rec, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))

			assert.Equal(t, tt.wantCode, rec.Code)

			var response struct {
				Status   string             `json:"status"`
				Services Services           `json:"services"`
				Agent    map[string]float64 `json:"agent"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Equal(t, tt.wantStatus, response.Status)
			assert.Equal(t, 40000.0, response.Agent["value"])
		})
	}
}
