// Package kafka holds broker connection settings and builds kafka-go
// transports and dialers with optional TLS and SASL. Package
// kafka/producer publishes job events to a topic.
//
//	events:
//	  kafka:
//	    enabled: true
//	    brokers: ["localhost:9092"]
//	    topic: transcription.events
package kafka
