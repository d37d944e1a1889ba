package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"photo-gallery/internal/service"
)

const (
	callerIDKey  = "userID"
	bearerPrefix = "Bearer "

	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// requireAuth rejects requests without a valid bearer token and stores the
// verified user id in the gin context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := h.authenticate(c)
		if !ok {
			return
		}
		c.Set(callerIDKey, userID)
		c.Next()
	}
}

// authenticate verifies the bearer token and aborts with 401 on failure.
func (h *Handler) authenticate(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msgNoToken})
		return "", false
	}

	userID, err := h.tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		h.logger.Debugf("reject token: %v", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msgInvalidToken})
		return "", false
	}
	return userID, true
}

func callerID(c *gin.Context) string {
	return c.GetString(callerIDKey)
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type registerRequest struct {
	Email            string `json:"email" form:"email"`
	Password         string `json:"password" form:"password"`
	RegisterPassword string `json:"registerPassword" form:"registerPassword"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please enter all fields"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please enter all fields"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"email": user.Email,
		"msg":   "Login successful",
	})
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please enter all fields"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.RegisterPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToResponse(user))
}

// verifyToken checks the bearer token like requireAuth and answers with the
// account it belongs to. Tokens of deleted accounts are rejected.
func (h *Handler) verifyToken(c *gin.Context) {
	userID, ok := h.authenticate(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, service.ErrUserNotFound) {
			h.logger.Errorf("verify token: load user %s: %v", userID, err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"msg": msgInvalidToken})
		return
	}

	c.JSON(http.StatusOK, userToResponse(user))
}
