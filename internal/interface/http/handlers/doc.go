// Package handlers contains reusable HTTP building blocks of the admission
// API: health checks and middleware.
//
// # Health Checks
//
// Critical checks decide liveness; optional ones only readiness:
//
//	checker := handlers.NewCompositeHealthChecker("v1")
//	checker.AddCheck("postgres", handlers.NewPingCheck(conn))
//	checker.AddOptionalCheck("redis", handlers.NewPingCheck(cache))
//	checker.AddOptionalCheck("paiement", handlers.NewBreakerCheck(client.IsHealthy))
//
// # Authentication
//
// API keys are never stored in clear. The configuration carries bcrypt
// hashes produced by HashAPIKey:
//
//	auth := handlers.NewAPIKeyAuth("X-API-Key", cfg.APIKeyHashes)
//	r.Use(auth.Middleware)
//
// # Metrics
//
// MetricsMiddleware must run inside the chi router so that the matched route
// pattern is known when the request completes.
package handlers
