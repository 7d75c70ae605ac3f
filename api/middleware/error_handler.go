// api/middleware/error_handler.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Annany2002/domain-ledger/internal/auth"
	"github.com/Annany2002/domain-ledger/internal/core"
	"github.com/Annany2002/domain-ledger/internal/importer"
	"github.com/Annany2002/domain-ledger/internal/storage"
	"github.com/Annany2002/domain-ledger/internal/tasks"
)

// ErrorHandler creates a Gin middleware for centralized error handling.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Only the last error decides the response.
		ginErr := c.Errors.Last()
		err := ginErr.Err

		customLog.Debugf("[ErrorHandler] Detected error: %v | Type: %T", err, err)

		var statusCode int
		var userMessage string
		var validationErrs validator.ValidationErrors
		var maxBytesErr *http.MaxBytesError

		switch {
		case errors.As(err, &validationErrs):
			statusCode = http.StatusBadRequest
			userMessage = "Validation failed. Please check your input."
			for _, fe := range validationErrs {
				customLog.Debugf("Validation Error: Field %s failed on %s", fe.Field(), fe.Tag())
			}
		case errors.As(err, &maxBytesErr):
			statusCode = http.StatusRequestEntityTooLarge
			userMessage = "Uploaded file is too large."
		case ginErr.IsType(gin.ErrorTypeBind):
			statusCode = http.StatusBadRequest
			userMessage = "Malformed request body."
		case errors.Is(err, storage.ErrUserNotFound),
			errors.Is(err, storage.ErrDomainNotFound),
			errors.Is(err, tasks.ErrTaskNotFound):
			statusCode = http.StatusNotFound
			userMessage = err.Error()
		case errors.Is(err, storage.ErrUsernameExists),
			errors.Is(err, storage.ErrDomainExists),
			errors.Is(err, storage.ErrDuplicateID),
			errors.Is(err, storage.ErrConstraintViolation):
			statusCode = http.StatusConflict
			userMessage = err.Error()
		case errors.Is(err, storage.ErrInvalidCredentials):
			statusCode = http.StatusUnauthorized
			userMessage = "wrong credentials"
		case errors.Is(err, auth.ErrUnauthorized):
			statusCode = http.StatusUnauthorized
			userMessage = err.Error()
		case errors.Is(err, auth.ErrTokenMalformed),
			errors.Is(err, auth.ErrTokenInvalid),
			errors.Is(err, auth.ErrTokenClaimsInvalid),
			errors.Is(err, auth.ErrUnexpectedSigningMethod):
			statusCode = http.StatusUnauthorized
			userMessage = "Invalid or malformed authentication token."
		case errors.Is(err, auth.ErrTokenExpired):
			statusCode = http.StatusUnauthorized
			userMessage = "Authentication token has expired."
		case errors.Is(err, storage.ErrRequiredField),
			errors.Is(err, importer.ErrInvalidWorkbook),
			errors.Is(err, importer.ErrNoSheet),
			errors.Is(err, importer.ErrMissingHeader),
			errors.Is(err, core.ErrBadRequest):
			statusCode = http.StatusBadRequest
			userMessage = err.Error()
		default:
			statusCode = http.StatusInternalServerError
			userMessage = "An unexpected internal server error occurred."
			customLog.Errorf("Unhandled error type: %T, Error: %v", err, err)
		}

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(statusCode, gin.H{"error": userMessage})
		} else {
			customLog.Debugf("[ErrorHandler] Response already written before handling error: %v", err)
		}
	}
}
