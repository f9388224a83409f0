// Package observability sets up OpenTelemetry tracing and metrics exported
// over OTLP/HTTP and exposes the instruments the service records.
//
//	observability:
//	  enabled: true
//	  endpoint: "localhost:4318"
//	  sample_rate: 1.0
package observability
