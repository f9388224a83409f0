package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/transcriptiond/transcription"
)

// Transcription returns the latest completed result. A text result is sent
// as text/plain when the query asks for format=raw.
func (h *Handler) Transcription(c *gin.Context) {
	res, ok := h.jobs.Latest()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "no transcriptions"})
		return
	}

	if res.Format == transcription.FormatText {
		if c.Query("format") == "raw" {
			c.String(http.StatusOK, "%s", res.Text)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"format":   string(transcription.FormatText),
			"raw_text": res.Text,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "ready",
		"format":        string(transcription.FormatJSON),
		"transcription": res.Text,
	})
}
