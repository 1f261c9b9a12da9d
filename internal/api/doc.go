// Package api hosts the HTTP server, middleware, and REST handlers.
// Notable routes:
//   - GET /healthz and /readyz for liveness and readiness probes.
//   - GET /metrics for Prometheus scraping.
//   - POST /api/scrape, /api/query, /api/recommend, /api/feedback, /api/analyze
//     for the ingestion and recommendation flow.
//   - GET /api/trending, /api/styles, /api/user/{user_id}/feedback, and
//     /api/analytics for read-side reporting.
package api
