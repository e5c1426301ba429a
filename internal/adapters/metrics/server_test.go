package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/adapters/metrics"
	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/config"
)

type syncCommand struct{}

func scrape(t *testing.T, handler http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func newServer(t *testing.T, health metrics.HealthFunc) *metrics.Server {
	t.Helper()
	server, err := metrics.NewServer(config.MetricsConfig{Enabled: true, Host: "127.0.0.1", Port: 9090, Path: "/metrics"}, health, nil)
	require.NoError(t, err)
	return server
}

func TestNewServer_RequiresRegistry(t *testing.T) {
	// Arrange
	metrics.Registry = nil

	// Act
	_, err := metrics.NewServer(config.MetricsConfig{Port: 9090}, nil, nil)

	// Assert
	assert.Error(t, err)
}

func TestServer_ExposesPlacementMetrics(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewPlacementMetricsCollector()
	require.NoError(t, collector.Register())
	metrics.SetGlobalPlacementCollector(collector)
	defer metrics.SetGlobalPlacementCollector(nil)

	// Act
	metrics.RecordMove("walking", true)
	metrics.RecordRepair("home")
	metrics.RecordSweepEviction("meeting")
	metrics.RecordContention("arrivals")
	metrics.RecordJobRun("arrivals", 0.01, true)
	code, body := scrape(t, newServer(t, nil).Handler(), "/metrics")

	// Assert
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `officesim_daemon_moves_total{outcome="walking",rerouted="true"} 1`)
	assert.Contains(t, body, `officesim_daemon_repairs_total{step="home"} 1`)
	assert.Contains(t, body, `officesim_daemon_sweep_evictions_total{category="meeting"} 1`)
	assert.Contains(t, body, `officesim_daemon_job_runs_total{job="arrivals",status="success"} 1`)
}

func TestServer_ExposesOccupancyGauges(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewOccupancyMetricsCollector()
	require.NoError(t, collector.Register())
	metrics.SetGlobalOccupancyCollector(collector)
	defer metrics.SetGlobalOccupancyCollector(nil)

	// Act
	metrics.ObserveOccupancy(metrics.OccupancyReport{
		Rooms: []metrics.RoomOccupancy{
			{Room: "breakroom_floor2", Category: "break", Floor: 2, Occupancy: 9, Capacity: 8},
			{Room: "cubicles_floor2", Category: "office", Floor: 2, Occupancy: 3, Capacity: 10},
		},
		ByState: map[string]int{"working": 3, "break": 9},
	})
	metrics.ObserveOccupancy(metrics.OccupancyReport{ByState: map[string]int{"working": 12}})
	_, body := scrape(t, newServer(t, nil).Handler(), "/metrics")

	// Assert
	assert.Contains(t, body, `officesim_daemon_room_occupancy{category="break",floor="2",room="breakroom_floor2"} 9`)
	assert.Contains(t, body, `officesim_daemon_agents{state="break"} 0`)
	assert.Contains(t, body, `officesim_daemon_agents{state="working"} 12`)
	assert.Contains(t, body, `officesim_daemon_rooms_over_capacity 0`)
}

func TestPrometheusMiddleware_CountsRequests(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewCommandMetricsCollector()
	require.NoError(t, collector.Register())
	middleware := metrics.PrometheusMiddleware(collector)

	// Act
	_, _ = middleware(context.Background(), &syncCommand{}, func(ctx context.Context, _ mediator.Request) (mediator.Response, error) {
		return nil, nil
	})
	_, err := middleware(context.Background(), &syncCommand{}, func(ctx context.Context, _ mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	})
	_, body := scrape(t, newServer(t, nil).Handler(), "/metrics")

	// Assert
	assert.EqualError(t, err, "boom")
	assert.Contains(t, body, `officesim_daemon_requests_total{request="syncCommand",status="success"} 1`)
	assert.Contains(t, body, `officesim_daemon_requests_total{request="syncCommand",status="error"} 1`)
}

func TestServer_HealthProbe(t *testing.T) {
	metrics.InitRegistry()

	tests := []struct {
		name   string
		health metrics.HealthFunc
		want   int
	}{
		{"no probe", nil, http.StatusOK},
		{"healthy", func(context.Context) error { return nil }, http.StatusOK},
		{"unhealthy", func(context.Context) error { return errors.New("store down") }, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			code, _ := scrape(t, newServer(t, tt.health).Handler(), "/healthz")

			// Assert
			assert.Equal(t, tt.want, code)
		})
	}
}
