// Package job admits, runs and reports transcription jobs.
//
// A Service owns a single Slot: a Submit either claims it and starts a
// Runner in the supervised Group, or is rejected with ErrBusy. The Runner
// invokes the transcription backend, stores a successful result in the
// transcript.Store and always releases the slot when it finishes.
package job
