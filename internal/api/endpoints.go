package api

// Static backend endpoints. Every path resolves against the configured
// base URL.
const (
	EndpointDiscover       = "/api/news/discoverer"
	EndpointClassify       = "/classify"
	EndpointSummarize      = "/summarize"
	EndpointExport         = "/api/news/exporter"
	EndpointRagIngest      = "/webrag/ingest"
	EndpointRagQuery       = "/webrag/query"
	EndpointDashboardStats = "/api/dashboard/stats"
	EndpointHealth         = "/api/health"
)

// TaskStatusEndpoint returns the status path for a submitted task.
// Status and result endpoints are always a matching pair keyed by the
// same task id.
func TaskStatusEndpoint(taskID string) string {
	return "/api/tasks/" + taskID
}

// TaskResultEndpoint returns the terminal result path for a completed task.
func TaskResultEndpoint(taskID string) string {
	return "/api/tasks/" + taskID + "/result"
}
