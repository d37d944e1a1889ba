package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"photo-gallery/internal/domain"
	"photo-gallery/internal/repository"
)

const createImagesTables = `
CREATE TABLE IF NOT EXISTS images (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	category TEXT NOT NULL,
	date DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_images_user_id ON images(user_id);
CREATE INDEX IF NOT EXISTS idx_images_date ON images(date);
CREATE TABLE IF NOT EXISTS image_urls (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	image_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	url TEXT NOT NULL,
	FOREIGN KEY(image_id) REFERENCES images(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_image_urls_image_id ON image_urls(image_id);
`

type ImageRepository struct {
	db *sql.DB
}

func NewImageRepository(db *sql.DB) repository.ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createImagesTables); err != nil {
		return fmt.Errorf("create images tables: %w", err)
	}
	return nil
}

func (r *ImageRepository) Create(ctx context.Context, image *domain.Image) error {
	if image.Date.IsZero() {
		image.Date = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	if _, err := tx.ExecContext(ctx, `
INSERT INTO images (id, user_id, category, date)
VALUES (?, ?, ?, ?)`,
		image.ID,
		image.UserID,
		string(image.Category),
		image.Date.UTC(),
	); err != nil {
		return fmt.Errorf("insert image: %w", err)
	}

	if err := insertURLs(ctx, tx, image.ID, image.URLs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *ImageRepository) Update(ctx context.Context, image *domain.Image) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
UPDATE images
SET user_id=?, category=?, date=?
WHERE id=?`,
		image.UserID,
		string(image.Category),
		image.Date.UTC(),
		image.ID,
	)
	if err != nil {
		return fmt.Errorf("update image: %w", err)
	}
	if err := expectAffected(res, "image"); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM image_urls WHERE image_id=?`, image.ID); err != nil {
		return fmt.Errorf("delete image urls: %w", err)
	}
	if err := insertURLs(ctx, tx, image.ID, image.URLs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return expectAffected(res, "image")
}

func (r *ImageRepository) Get(ctx context.Context, id string) (*domain.Image, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, category, date
FROM images
WHERE id=?`, id)

	image, err := scanImage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("image %s: %w", id, repository.ErrNotFound)
		}
		return nil, err
	}

	urls, err := r.listURLs(ctx, image.ID)
	if err != nil {
		return nil, err
	}
	image.URLs = urls
	return image, nil
}

func (r *ImageRepository) List(ctx context.Context, query domain.ImageQuery) ([]domain.Image, error) {
	var (
		where []string
		args  []any
	)
	if query.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, query.UserID)
	}
	if query.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(query.Category))
	}

	stmt := `SELECT id, user_id, category, date FROM images`
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY date DESC, rowid DESC"

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}

	var images []domain.Image
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		images = append(images, *image)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate images: %w", err)
	}
	// release the only connection before loading urls
	rows.Close()

	for i := range images {
		urls, err := r.listURLs(ctx, images[i].ID)
		if err != nil {
			return nil, err
		}
		images[i].URLs = urls
	}
	return images, nil
}

func (r *ImageRepository) listURLs(ctx context.Context, imageID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT url
FROM image_urls
WHERE image_id=?
ORDER BY position ASC`, imageID)
	if err != nil {
		return nil, fmt.Errorf("query image urls: %w", err)
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan image url: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

func insertURLs(ctx context.Context, tx *sql.Tx, imageID string, urls []string) error {
	for i, url := range urls {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO image_urls (image_id, position, url)
VALUES (?, ?, ?)`,
			imageID,
			i,
			url,
		); err != nil {
			return fmt.Errorf("insert image url: %w", err)
		}
	}
	return nil
}

func expectAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, repository.ErrNotFound)
	}
	return nil
}

func scanImage(row interface {
	Scan(dest ...any) error
}) (*domain.Image, error) {
	var (
		image    domain.Image
		category string
	)
	if err := row.Scan(&image.ID, &image.UserID, &category, &image.Date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan image: %w", err)
	}
	image.Category = domain.Category(category)
	return &image, nil
}
