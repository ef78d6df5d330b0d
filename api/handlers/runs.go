package handlers

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/logger"
)

// runMu serializes API-triggered runs; the ledger supports one writer.
var runMu sync.Mutex

// TriggerRun starts a synchronous pipeline pass. An optional limit query
// parameter caps how many listed messages are considered.
func TriggerRun(log logger.Logger, pipeline interfaces.PipelineService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !runMu.TryLock() {
			c.JSON(http.StatusConflict, gin.H{"error": "a run is already in progress"})
			return
		}
		defer runMu.Unlock()

		limit := 0
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
				return
			}
			limit = parsed
		}

		summary, err := pipeline.Run(c.Request.Context(), limit)
		if err != nil {
			log.Errorf("API-triggered run failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"runId":     summary.RunID,
			"total":     summary.Total,
			"processed": summary.Processed,
			"skipped":   summary.Skipped,
			"failed":    summary.Failed,
		})
	}
}
