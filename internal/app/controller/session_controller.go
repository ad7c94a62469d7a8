package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meshur/storefront-backend/internal/app/service"
	apperrors "github.com/meshur/storefront-backend/internal/errors"
	"github.com/meshur/storefront-backend/internal/middleware"
	"github.com/meshur/storefront-backend/pkg/util"
)

type SessionController struct {
	sessions *service.SessionRegistry
	secret   string
	tokenTTL time.Duration
}

func NewSessionController(sessions *service.SessionRegistry, secret string, tokenTTL time.Duration) *SessionController {
	return &SessionController{
		sessions: sessions,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// IssueSession POST /api/v1/session
// Starts a new guest session; the token identifies its cart and favorites.
func (ctrl *SessionController) IssueSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID := uuid.NewString()
	token, expiresAt, err := util.GenerateSessionToken(sessionID, ctrl.secret, ctrl.tokenTTL)
	if err != nil {
		log.Error("Failed to issue session token", err)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Session issued", map[string]interface{}{
		"session_id": sessionID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"session_id": sessionID,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// SaveSession POST /api/v1/session/save
// Persists the session right away instead of waiting for the next flush.
func (ctrl *SessionController) SaveSession(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	if err := ctrl.sessions.Save(c.Request.Context(), sessionID); err != nil {
		respondServiceError(c, err, "save session")
		return
	}
	c.Status(http.StatusNoContent)
}
