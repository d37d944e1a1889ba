package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"photo-gallery/internal/domain"
	"photo-gallery/internal/repository"
	"photo-gallery/internal/storage"
)

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[string]domain.User
	getErr error
}

func newFakeUsers(users ...domain.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]domain.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Init(context.Context) error { return nil }

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			return fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
	}
	f.byID[user.ID] = *user
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	return &u, nil
}

type fakeImages struct {
	mu        sync.Mutex
	byID      map[string]domain.Image
	createErr error
	updates   int
}

func newFakeImages(images ...domain.Image) *fakeImages {
	f := &fakeImages{byID: map[string]domain.Image{}}
	for _, img := range images {
		f.byID[img.ID] = img
	}
	return f
}

func (f *fakeImages) Init(context.Context) error { return nil }

func (f *fakeImages) Create(_ context.Context, image *domain.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[image.ID] = cloneImage(*image)
	return nil
}

func (f *fakeImages) Update(_ context.Context, image *domain.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[image.ID]; !ok {
		return repository.ErrNotFound
	}
	f.updates++
	f.byID[image.ID] = cloneImage(*image)
	return nil
}

func (f *fakeImages) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeImages) Get(_ context.Context, id string) (*domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("image %s: %w", id, repository.ErrNotFound)
	}
	img = cloneImage(img)
	return &img, nil
}

func (f *fakeImages) List(_ context.Context, query domain.ImageQuery) ([]domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Image
	for _, img := range f.byID {
		if query.UserID != "" && img.UserID != query.UserID {
			continue
		}
		if query.Category != "" && img.Category != query.Category {
			continue
		}
		out = append(out, cloneImage(img))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func cloneImage(img domain.Image) domain.Image {
	img.URLs = append([]string(nil), img.URLs...)
	return img
}

type fakeMedia struct {
	mu        sync.Mutex
	uploaded  []string
	deleted   []string
	failAfter int // fail the upload once this many blobs are stored; <0 never
	deleteErr error
	objects   []storage.ObjectInfo
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{failAfter: -1}
}

func (f *fakeMedia) Upload(_ context.Context, blob storage.Blob) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter >= 0 && len(f.uploaded) >= f.failAfter {
		return "", errors.New("media store unavailable")
	}
	body, err := io.ReadAll(blob.Body)
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("https://media.test/upload/portfolio/%s-%d.jpg", strings.TrimSuffix(blob.Name, ".jpg"), len(body))
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeMedia) Delete(_ context.Context, blobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, blobID)
	return nil
}

func (f *fakeMedia) ListObjects(context.Context) ([]storage.ObjectInfo, error) {
	return f.objects, nil
}

func (f *fakeMedia) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploaded) + len(f.deleted)
}

func blob(name, body string) storage.Blob {
	return storage.Blob{Name: name, ContentType: "image/jpeg", Size: int64(len(body)), Body: strings.NewReader(body)}
}
