// Package server exposes the analyzer and the library over HTTP.
//
// Routes:
//
//	GET    /api/health        liveness plus library totals
//	POST   /api/analyze       multipart upload (field "file")
//	GET    /api/racks         stored analyses, newest first
//	GET    /api/racks/{id}    one analysis; ?format= selects a report encoding
//	DELETE /api/racks/{id}    remove an analysis
//	GET    /metrics           Prometheus metrics
package server
