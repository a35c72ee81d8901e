package api

// VersionResp is the response for request sent to /version endpoint.
type VersionResp struct {
	Version    string `json:"version"`
	GitSHA     string `json:"git-sha,omitempty"`
	APIVersion int    `json:"api-version"`
}

// HealthResp is the response of the health endpoint.
type HealthResp struct {
	Status     string `json:"status"`
	LastPass   string `json:"last-pass,omitempty"`
	LastFailed bool   `json:"last-failed"`
	Error      string `json:"error,omitempty"`
}
