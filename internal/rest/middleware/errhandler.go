package middleware

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/logger"
)

// ErrorHandler turns the last error attached to the gin context into a JSON response.
// The status comes from the sentinel the error is marked with, the message from its hints.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		status := ierr.HTTPStatusFromErr(err)
		if status >= 500 {
			log.Errorw("request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"status", status,
				"error", err,
			)
		}

		c.JSON(status, ierr.ErrorResponse{
			Success: false,
			Error: ierr.ErrorDetail{
				Code:    ierr.CodeFromErr(err),
				Display: getDisplayMessage(err),
				Details: getSafeDetails(err),
			},
		})
	}
}

func getDisplayMessage(err error) string {
	// GetAllHints is a post-order traversal, the first non-empty hint is the innermost one
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}
	return "An unexpected error occurred"
}

func getSafeDetails(err error) map[string]any {
	details := make(map[string]any)

	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			jsonStr, ok := strings.CutPrefix(payload, "__json__:")
			if !ok {
				continue
			}
			var jsonDetails map[string]any
			if err := json.Unmarshal([]byte(jsonStr), &jsonDetails); err != nil {
				continue
			}
			for k, v := range jsonDetails {
				details[k] = v
			}
		}
	}

	if len(details) == 0 {
		return nil
	}
	return details
}
