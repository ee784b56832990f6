package models

import "time"

// GatewayMetrics is a point-in-time summary of gateway traffic.
type GatewayMetrics struct {
	RequestsTotal             uint64    `json:"requestsTotal"`
	AverageRequestDurationMs  float64   `json:"averageRequestDurationMs"`
	UpstreamCallsTotal        uint64    `json:"upstreamCallsTotal"`
	UpstreamErrorsTotal       uint64    `json:"upstreamErrorsTotal"`
	AverageUpstreamDurationMs float64   `json:"averageUpstreamDurationMs"`
	CacheHits                 uint64    `json:"cacheHits"`
	CacheMisses               uint64    `json:"cacheMisses"`
	CacheHitRatio             float64   `json:"cacheHitRatio"`
	ActiveSessions            int64     `json:"activeSessions"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generatedAt"`
}
