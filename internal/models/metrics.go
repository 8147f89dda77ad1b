package models

import "time"

// EngineMetricsSnapshot aggregates runtime counters for the status endpoint.
type EngineMetricsSnapshot struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	DBQueryCount             uint64    `json:"dbQueryCount"`
	AverageDBQueryDurationMs float64   `json:"averageDbQueryDurationMs"`
	ConflictsDetected        uint64    `json:"conflictsDetected"`
	SuggestionsApplied       uint64    `json:"suggestionsApplied"`
	ConflictsResolved        uint64    `json:"conflictsResolved"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
