// Package sse streams server-sent events to HTTP clients.
//
// A Hub routes broadcast frames to the clients whose topic pattern matches
// the frame's topic (glob syntax, "*" matches everything). Handler serves a
// subscription endpoint:
//
//	comp := sse.NewComponent("/events")
//	mux.Handle("/events", sse.Handler(comp.Hub()))
//	comp.Hub().Broadcast(jobID, "job.succeeded", payload)
package sse
