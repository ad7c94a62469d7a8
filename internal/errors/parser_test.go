package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"nil", nil, http.StatusInternalServerError, InternalServerError},
		{"gorm not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), http.StatusNotFound, ResourceNotFound},
		{"redis nil", redis.Nil, http.StatusNotFound, ResourceNotFound},
		{"deadline", fmt.Errorf("save: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, InternalStorageTimeout},
		{"refused", fmt.Errorf("dial tcp 127.0.0.1:6379: connect: connection refused"), http.StatusServiceUnavailable, InternalStorageError},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError, InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, "save session")
			assert.Equal(t, tt.wantStatus, info.Status)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotContains(t, info.Message, "127.0.0.1")
		})
	}
}

func TestParseError_MessageNamesOperation(t *testing.T) {
	assert.Equal(t, "Failed to save session, please try again later", ParseError(fmt.Errorf("x"), "save session").Message)
	assert.Equal(t, "Something went wrong, please try again later", ParseError(fmt.Errorf("x"), "").Message)
}
