package repository

import (
	"context"

	"photo-gallery/internal/domain"
)

// ImageRepository persists gallery image records.
// List returns records newest first.
type ImageRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, image *domain.Image) error
	Update(ctx context.Context, image *domain.Image) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Image, error)
	List(ctx context.Context, query domain.ImageQuery) ([]domain.Image, error)
}
