package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"photo-gallery/internal/domain"
	"photo-gallery/internal/repository"
	"photo-gallery/internal/storage"
)

// GalleryService coordinates the image lifecycle across the catalog and the media store.
//
// Uploads run one file at a time in input order. Nothing is rolled back when a
// later step fails: blobs pushed before a catalog error stay in the media store,
// and blobs removed before a failed catalog write stay removed.
type GalleryService interface {
	Upload(ctx context.Context, ownerID string, category domain.Category, files []storage.Blob) (*domain.Image, error)
	// ListAll returns every record newest first with display-optimized URLs.
	ListAll(ctx context.Context) ([]domain.Image, error)
	// List returns the caller's records, or every record for admins.
	List(ctx context.Context, callerID string, category domain.Category) ([]domain.Image, error)
	Get(ctx context.Context, id string) (*domain.Image, error)
	Update(ctx context.Context, id string, category domain.Category, files []storage.Blob) (*domain.Image, error)
	Delete(ctx context.Context, id string) error
	// Objects lists raw media store contents. Admin only.
	Objects(ctx context.Context, callerID string) ([]storage.ObjectInfo, error)
}

// GalleryConfig carries the display settings of the public listing.
type GalleryConfig struct {
	DisplayTransform string
	Logger           *logrus.Logger
}

type galleryService struct {
	images repository.ImageRepository
	users  repository.UserRepository
	media  storage.Service
	cfg    GalleryConfig
	log    *logrus.Logger
}

func NewGalleryService(images repository.ImageRepository, users repository.UserRepository, media storage.Service, cfg GalleryConfig) GalleryService {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &galleryService{
		images: images,
		users:  users,
		media:  media,
		cfg:    cfg,
		log:    cfg.Logger,
	}
}

func (s *galleryService) Upload(ctx context.Context, ownerID string, category domain.Category, files []storage.Blob) (*domain.Image, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	urls, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	image := &domain.Image{
		ID:       uuid.NewString(),
		UserID:   ownerID,
		Category: category,
		URLs:     urls,
	}
	if err := s.images.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("create image record: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"image": image.ID,
		"user":  ownerID,
		"files": len(urls),
	}).Info("images uploaded")
	return image, nil
}

func (s *galleryService) ListAll(ctx context.Context) ([]domain.Image, error) {
	images, err := s.images.List(ctx, domain.ImageQuery{})
	if err != nil {
		return nil, err
	}

	for i := range images {
		optimized := make([]string, len(images[i].URLs))
		for j, url := range images[i].URLs {
			optimized[j] = storage.OptimizeURL(url, s.cfg.DisplayTransform)
		}
		images[i].URLs = optimized
	}
	return images, nil
}

func (s *galleryService) List(ctx context.Context, callerID string, category domain.Category) ([]domain.Image, error) {
	query := domain.ImageQuery{Category: category}

	admin, err := s.isAdmin(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !admin {
		query.UserID = callerID
	}

	return s.images.List(ctx, query)
}

func (s *galleryService) Get(ctx context.Context, id string) (*domain.Image, error) {
	image, err := s.images.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return image, nil
}

// Update replaces the category and, when files are supplied, the media of a
// record. Stored blobs are removed first; with no new files the record keeps
// its previous URLs.
func (s *galleryService) Update(ctx context.Context, id string, category domain.Category, files []storage.Blob) (*domain.Image, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	image, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.deleteBlobs(ctx, image.URLs); err != nil {
		return nil, err
	}

	urls, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	image.Category = category
	if len(urls) > 0 {
		image.URLs = urls
	}

	if err := s.images.Update(ctx, image); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("update image record: %w", err)
	}
	return image, nil
}

func (s *galleryService) Delete(ctx context.Context, id string) error {
	image, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.deleteBlobs(ctx, image.URLs); err != nil {
		return err
	}

	if err := s.images.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("delete image record: %w", err)
	}
	s.log.WithField("image", id).Info("image deleted")
	return nil
}

func (s *galleryService) Objects(ctx context.Context, callerID string) ([]storage.ObjectInfo, error) {
	admin, err := s.isAdmin(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, ErrForbidden
	}
	return s.media.ListObjects(ctx)
}

// isAdmin resolves the caller's role. Unknown callers are treated as standard users.
func (s *galleryService) isAdmin(ctx context.Context, callerID string) (bool, error) {
	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("resolve caller role: %w", err)
	}
	return user.IsAdmin(), nil
}

func (s *galleryService) uploadAll(ctx context.Context, files []storage.Blob) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := s.media.Upload(ctx, file)
		if err != nil {
			if len(urls) > 0 {
				s.log.Warnf("upload aborted after %d stored blobs: %v", len(urls), err)
			}
			return nil, fmt.Errorf("upload blob: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *galleryService) deleteBlobs(ctx context.Context, urls []string) error {
	for _, url := range urls {
		blobID := storage.BlobID(url)
		if err := s.media.Delete(ctx, blobID); err != nil {
			return fmt.Errorf("delete blob %s: %w", blobID, err)
		}
		s.log.Debugf("deleted blob %s", blobID)
	}
	return nil
}
