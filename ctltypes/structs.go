// Package ctltypes holds the wire DTOs shared by the control server and
// its clients.
package ctltypes

import "fmt"

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

type StatusResponse struct {
	Enabled     bool   `json:"enabled"`
	Target      string `json:"target"`
	DumpPath    string `json:"dumpPath"`
	DumpPresent bool   `json:"dumpPresent"`
	DumpSize    int    `json:"dumpSize"`
}

type ToggleResponse struct {
	Enabled bool `json:"enabled"`
}

type DumpInfoResponse struct {
	Present bool   `json:"present"`
	Size    int    `json:"size"`
	Sha256  string `json:"sha256,omitempty"`
	Path    string `json:"path"`
}

type DumpResetResponse struct {
	Size int `json:"size"`
}
