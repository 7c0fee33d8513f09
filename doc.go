// Package backend provides the Reelrank recommendation API server.

// This package contains the main application entry point. The actual API
// documentation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/recommend: Hybrid recommendation engine (history + preferences)
// - internal/catalog: Database-backed movie and rating store
// - internal/metadata: TMDB metadata client (posters, original language)
// - internal/cache: Language-lookup caches (Redis and in-memory)
// - internal/models: Data models and database schemas
// - internal/database: Database connection and migrations
// - internal/middleware: HTTP middleware (request IDs, logging)
// - internal/metrics: Prometheus metrics
// - internal/logger: Structured logging
// - internal/seed: Development data seeding

// See the individual package documentation for detailed API reference.
package backend
