package types

// HealthStatus orders from best to worst: UP, DEGRADED, DOWN.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "UP"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusDown     HealthStatus = "DOWN"
)

// HealthComponent is one dependency probe. Only a critical component can
// take the whole service down; the others cap it at DEGRADED.
type HealthComponent struct {
	Status    HealthStatus `json:"status"`
	Critical  bool         `json:"critical"`
	LatencyMS int64        `json:"latencyMs"`
	Details   string       `json:"details,omitempty"`
}

// HealthCheck is the body of GET /health.
type HealthCheck struct {
	Status     HealthStatus               `json:"status"`
	Components map[string]HealthComponent `json:"components"`
	Version    string                     `json:"version"`
	Timestamp  string                     `json:"timestamp"`
	Uptime     string                     `json:"uptime"`
}

// RollupHealth folds component states into the overall service state.
func RollupHealth(components map[string]HealthComponent) HealthStatus {
	overall := HealthStatusUp
	for _, c := range components {
		switch {
		case c.Status == HealthStatusUp:
		case c.Critical && c.Status == HealthStatusDown:
			return HealthStatusDown
		default:
			overall = HealthStatusDegraded
		}
	}
	return overall
}
