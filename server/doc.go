// Package server runs the gin HTTP server on a root ServeMux behind h2c.
//
// Middleware (server/middleware) is applied at the handler level so it
// covers gin routes and mounted handlers alike: recovery, request id, CORS,
// body-size limit and request logging. Auth is a gin middleware attached
// per route.
//
// Default endpoints (server/endpoint): /health, /ready, /info, /metrics.
package server
