package status

import (
	"context"
	"testing"

	"github.com/truemediaorg/postanalyzer/analyzer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatusSource struct {
	mock.Mock
	calls []string
}

func (m *MockStatusSource) FetchHealth(ctx context.Context) (*analyzer.HealthStatus, error) {
	m.calls = append(m.calls, "health")
	args := m.Called(ctx)
	if h := args.Get(0); h != nil {
		return h.(*analyzer.HealthStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStatusSource) FetchMetrics(ctx context.Context) (*analyzer.Metrics, error) {
	m.calls = append(m.calls, "metrics")
	args := m.Called(ctx)
	if metrics := args.Get(0); metrics != nil {
		return metrics.(*analyzer.Metrics), args.Error(1)
	}
	return nil, args.Error(1)
}

func healthy() *analyzer.HealthStatus {
	return &analyzer.HealthStatus{
		Status:   analyzer.HealthStateHealthy,
		Services: map[string]string{"twitter_scraper": "available", "gpt_service": "connected"},
	}
}

func TestActivate(t *testing.T) {
	t.Run("fetches health before metrics", func(t *testing.T) {
		source := new(MockStatusSource)
		source.On("FetchHealth", mock.Anything).Return(healthy(), nil)
		source.On("FetchMetrics", mock.Anything).Return(&analyzer.Metrics{RequestsTotal: 7}, nil)
		poller := NewPoller(source)

		poller.Activate(context.TODO())

		assert.Equal(t, []string{"health", "metrics"}, source.calls)
		snapshot := poller.Snapshot()
		assert.Equal(t, analyzer.HealthStateHealthy, snapshot.HealthLabel())
		require.NotNil(t, snapshot.Metrics)
		assert.Equal(t, int64(7), snapshot.Metrics.RequestsTotal)
	})

	t.Run("a health failure still fetches metrics", func(t *testing.T) {
		source := new(MockStatusSource)
		source.On("FetchHealth", mock.Anything).Return(nil, &analyzer.Error{Message: "Server error"})
		source.On("FetchMetrics", mock.Anything).Return(&analyzer.Metrics{RequestsPerMinute: 2}, nil)
		poller := NewPoller(source)

		poller.Activate(context.TODO())

		source.AssertNumberOfCalls(t, "FetchMetrics", 1)
		snapshot := poller.Snapshot()
		assert.Nil(t, snapshot.Health)
		assert.Equal(t, analyzer.HealthStateUnknown, snapshot.HealthLabel())
		require.NotNil(t, snapshot.Metrics)
		assert.Equal(t, 2.0, snapshot.Metrics.RequestsPerMinute)
	})

	t.Run("a metrics failure keeps the health", func(t *testing.T) {
		source := new(MockStatusSource)
		source.On("FetchHealth", mock.Anything).Return(healthy(), nil)
		source.On("FetchMetrics", mock.Anything).Return(nil, &analyzer.Error{Message: "Network error. Please check your connection."})
		poller := NewPoller(source)

		poller.Activate(context.TODO())

		snapshot := poller.Snapshot()
		assert.NotNil(t, snapshot.Health)
		assert.Nil(t, snapshot.Metrics)
	})

	t.Run("unhealthy is distinct from never polled", func(t *testing.T) {
		source := new(MockStatusSource)
		source.On("FetchHealth", mock.Anything).Return(&analyzer.HealthStatus{Status: analyzer.HealthStateUnhealthy}, nil)
		source.On("FetchMetrics", mock.Anything).Return(&analyzer.Metrics{}, nil)
		poller := NewPoller(source)

		assert.Nil(t, poller.Snapshot().Health)
		poller.Activate(context.TODO())

		snapshot := poller.Snapshot()
		require.NotNil(t, snapshot.Health)
		assert.Equal(t, analyzer.HealthStateUnhealthy, snapshot.HealthLabel())
	})

	t.Run("a later failure keeps the previous value", func(t *testing.T) {
		source := new(MockStatusSource)
		source.On("FetchHealth", mock.Anything).Return(healthy(), nil).Once()
		source.On("FetchHealth", mock.Anything).Return(nil, &analyzer.Error{Message: "Server error"}).Once()
		source.On("FetchMetrics", mock.Anything).Return(&analyzer.Metrics{}, nil)
		poller := NewPoller(source)

		poller.Activate(context.TODO())
		poller.Activate(context.TODO())

		assert.Equal(t, analyzer.HealthStateHealthy, poller.Snapshot().HealthLabel())
	})

	t.Run("responses after deactivation are dropped", func(t *testing.T) {
		source := new(MockStatusSource)
		source.On("FetchHealth", mock.Anything).Return(healthy(), nil)
		source.On("FetchMetrics", mock.Anything).Return(&analyzer.Metrics{}, nil)
		poller := NewPoller(source)
		poller.Deactivate()

		poller.Activate(context.TODO())

		assert.Equal(t, Snapshot{}, poller.Snapshot())
	})
}

func TestServiceNames(t *testing.T) {
	assert.Nil(t, Snapshot{}.ServiceNames())
	assert.Equal(t, []string{"gpt_service", "twitter_scraper"}, Snapshot{Health: healthy()}.ServiceNames())
}
