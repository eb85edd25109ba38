package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an upstream dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LastChecked string `json:"lastChecked"`
}

// ReportMetrics is returned by GET /v1/metrics/reports.
type ReportMetrics struct {
	TotalReports   int64   `json:"totalReports"`
	FailedReports  int64   `json:"failedReports"`
	ErrorRate      float64 `json:"errorRate"`
	PagesFetched   int64   `json:"pagesFetched"`
	PlatformErrors int64   `json:"platformErrors"`
	CacheHitRate   float64 `json:"cacheHitRate"`
	Period         string  `json:"period"`
}
