package analyzer

import "strings"

type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateUnhealthy HealthState = "unhealthy"
	HealthStateUnknown   HealthState = "unknown"
)

func ParseHealthState(s string) HealthState {
	switch HealthState(strings.ToLower(s)) {
	case HealthStateHealthy:
		return HealthStateHealthy
	case HealthStateUnhealthy:
		return HealthStateUnhealthy
	default:
		return HealthStateUnknown
	}
}

// HealthStatus maps service names to availability strings
// such as "available", "connected", "disconnected" or "error".
type HealthStatus struct {
	Status   HealthState       `json:"status" yaml:"status"`
	Services map[string]string `json:"services" yaml:"services"`
	Version  string            `json:"version,omitempty" yaml:"version,omitempty"`
}

type healthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
	Version  string            `json:"version"`
}

func (r healthResponse) toHealthStatus() *HealthStatus {
	services := r.Services
	if services == nil {
		services = map[string]string{}
	}
	return &HealthStatus{
		Status:   ParseHealthState(r.Status),
		Services: services,
		Version:  r.Version,
	}
}

// Metrics fields are 0 when the service omits them.
type Metrics struct {
	RequestsTotal         int64   `json:"requests_total" yaml:"requests_total"`
	RequestsPerMinute     float64 `json:"requests_per_minute" yaml:"requests_per_minute"`
	AverageResponseTimeMs float64 `json:"average_response_time" yaml:"average_response_time"`
	ErrorRatePercent      float64 `json:"error_rate" yaml:"error_rate"`
}

// requests_total is decoded as a float so "12.0" style payloads don't fail
type metricsResponse struct {
	RequestsTotal       float64 `json:"requests_total"`
	RequestsPerMinute   float64 `json:"requests_per_minute"`
	AverageResponseTime float64 `json:"average_response_time"`
	ErrorRate           float64 `json:"error_rate"`
}

func (r metricsResponse) toMetrics() *Metrics {
	return &Metrics{
		RequestsTotal:         int64(r.RequestsTotal),
		RequestsPerMinute:     r.RequestsPerMinute,
		AverageResponseTimeMs: r.AverageResponseTime,
		ErrorRatePercent:      r.ErrorRate,
	}
}
