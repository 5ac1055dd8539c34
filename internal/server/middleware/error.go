package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-catalog/internal/core/domain"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error attached by a handler as an RFC 9457 problem.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var problem *domain.Problem
		if !errors.As(err, &problem) {
			logger.Error("Unhandled error",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			problem = domain.New(
				http.StatusInternalServerError,
				"Internal Server Error",
				"An unexpected error occurred.",
			)
		} else if problem.Log != nil && problem.Status >= http.StatusInternalServerError {
			logger.Error("Internal error",
				zap.String("request_id", GetRequestID(c)),
				zap.Int("status", problem.Status),
				zap.Error(problem.Log),
			)
		}

		if problem.Instance == "" {
			problem.Instance = c.Request.URL.Path
		}

		c.Header("Content-Type", "application/problem+json")
		c.AbortWithStatusJSON(problem.Status, problem)
	}
}
