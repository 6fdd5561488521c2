// Package server provides HTTP routing, middleware, and an in-memory mock of the feature-rating API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /api/features"), so handlers
// can read path segments with [http.Request.PathValue].
//
// # Mock Rating API
//
// [RatingAPI] serves the same endpoints as the real rating server from memory:
//
//	GET  /api/features
//	POST /api/features/{feature}/
//	GET  /api/features/{feature}/tracks/random_untrained
//	POST /api/features/{feature}/tracks/{track}/rate/{rating}
//	GET  /api/spotify_token
//	POST /api/shutdown
//
// Nothing is persisted; ratings live as long as the process. It exists for offline use of the
// interactive page and for end-to-end tests of the clients.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
