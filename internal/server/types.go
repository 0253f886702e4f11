package server

import (
	"rackscope/internal/analyzer"
	"rackscope/internal/export"
	"rackscope/internal/library"
	"rackscope/internal/rack"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports liveness and library totals.
type HealthResponse struct {
	Status  string           `json:"status"`
	Library *library.Summary `json:"library,omitempty"`
}

// AnalyzeResponse is returned by POST /api/analyze.
type AnalyzeResponse struct {
	ID        string            `json:"id,omitempty"`
	Outcome   analyzer.Outcome  `json:"outcome"`
	SHA256    string            `json:"content_sha256"`
	Document  *rack.Document    `json:"document"`
	Artifacts []export.Artifact `json:"artifacts,omitempty"`
}

// RackListResponse is returned by GET /api/racks.
type RackListResponse struct {
	Items []*library.Analysis `json:"items"`
}

// RackResponse is returned by GET /api/racks/{id}.
type RackResponse struct {
	Item *library.Analysis `json:"item"`
}
