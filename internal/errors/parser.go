package errors

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ErrorInfo is the client-facing description of an error.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError turns a storage or I/O error into a response without leaking
// driver details. operation names the operation, e.g. "save session".
func ParseError(err error, operation string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: defaultMessage(operation)}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, redis.Nil) {
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: "The requested data does not exist"}
	}

	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return ErrorInfo{Status: http.StatusServiceUnavailable, Code: InternalStorageTimeout, Message: "Storage did not respond in time, please retry"}
	}

	errLower := strings.ToLower(err.Error())
	if mongo.IsNetworkError(err) ||
		strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "broken pipe") {
		return ErrorInfo{Status: http.StatusServiceUnavailable, Code: InternalStorageError, Message: "Storage is unavailable, please retry"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: defaultMessage(operation)}
}

func defaultMessage(operation string) string {
	if operation == "" {
		return "Something went wrong, please try again later"
	}
	return "Failed to " + operation + ", please try again later"
}
