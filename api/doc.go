// Package api implements the transcription HTTP surface:
//
//	POST /transcribe     upload audio and start the single job
//	GET  /status         slot occupancy and the last job id
//	GET  /transcription  the latest completed result
package api
