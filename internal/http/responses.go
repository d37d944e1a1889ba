package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"photo-gallery/internal/domain"
	"photo-gallery/internal/service"
	"photo-gallery/internal/storage"
)

type ImageResponse struct {
	ID       string   `json:"_id"`
	User     string   `json:"user"`
	Category string   `json:"category"`
	Images   []string `json:"images"`
	Date     string   `json:"date"`
}

type UserResponse struct {
	ID        string `json:"_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"lastModified,omitempty"`
}

func imageToResponse(image domain.Image) ImageResponse {
	urls := image.URLs
	if urls == nil {
		urls = []string{}
	}
	return ImageResponse{
		ID:       image.ID,
		User:     image.UserID,
		Category: string(image.Category),
		Images:   urls,
		Date:     image.Date.UTC().Format(time.RFC3339),
	}
}

func imagesToResponse(images []domain.Image) []ImageResponse {
	resp := make([]ImageResponse, len(images))
	for i := range images {
		resp[i] = imageToResponse(images[i])
	}
	return resp
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func objectToResponse(object storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{Key: object.Key, Size: object.Size}
	if object.LastModified != nil {
		formatted := object.LastModified.UTC().Format(time.RFC3339)
		resp.LastModified = &formatted
	}
	return resp
}

// fail maps service errors onto status codes. Anything unrecognised is logged
// and answered with a bare "Server Error".
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please enter all fields"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid Credentials"})
	case errors.Is(err, service.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid category"})
	case errors.Is(err, service.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, errBadForm):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid form data"})
	case errors.Is(err, service.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "Image not found"})
	case errors.Is(err, service.ErrRegistrationDisabled):
		c.JSON(http.StatusForbidden, gin.H{"msg": "Registration is disabled"})
	case errors.Is(err, service.ErrInvalidRegistrationPassword):
		c.JSON(http.StatusForbidden, gin.H{"msg": "Invalid registration password"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"msg": "User not authorized"})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"msg": "User already exists"})
	default:
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		c.String(http.StatusInternalServerError, "Server Error")
	}
}
