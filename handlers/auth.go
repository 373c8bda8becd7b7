package handlers

import (
	"errors"
	"net/http"

	"github.com/edsotopublicidad-gif/Sotos-App/middleware"
	"github.com/edsotopublicidad-gif/Sotos-App/models"
	"github.com/edsotopublicidad-gif/Sotos-App/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoginRequest struct {
	Role     models.UserRole `json:"role" binding:"required"`
	Password string          `json:"password" binding:"required"`
}

// Login authenticates a role session and returns a JWT. Each login gets a
// fresh client id, so the device can be told apart in change notifications.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Auth.Verify(req.Role, req.Password); err != nil {
		if errors.Is(err, store.ErrUnknownRole) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: mesero, cocina, delivery or jefe"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid role or password"})
		return
	}

	clientID := uuid.NewString()
	token, err := middleware.GenerateToken(req.Role, clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Login successful",
		"token":     token,
		"role":      req.Role,
		"client_id": clientID,
	})
}

type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ChangePassword lets the jefe rotate any role's secret. Open sessions of
// that role are forced to log in again.
func (h *Handler) ChangePassword(c *gin.Context) {
	role := models.UserRole(c.Param("role"))

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Auth.SetPassword(role, req.Password, middleware.GetClientID(c)); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated, active sessions for the role were logged out",
		"role":    role,
	})
}
