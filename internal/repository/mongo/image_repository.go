package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"photo-gallery/internal/domain"
	"photo-gallery/internal/repository"
)

type imageDocument struct {
	ID       string    `bson:"_id"`
	UserID   string    `bson:"user"`
	Category string    `bson:"category"`
	Images   []string  `bson:"images"`
	Date     time.Time `bson:"date"`
}

type ImageRepository struct {
	coll *mongo.Collection
}

func NewImageRepository(db *mongo.Database) repository.ImageRepository {
	return &ImageRepository{coll: db.Collection(imagesCollection)}
}

func (r *ImageRepository) Init(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "date", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create images indexes: %w", err)
	}
	return nil
}

func (r *ImageRepository) Create(ctx context.Context, image *domain.Image) error {
	if image.Date.IsZero() {
		image.Date = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, toImageDocument(image)); err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	return nil
}

func (r *ImageRepository) Update(ctx context.Context, image *domain.Image) error {
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: image.ID}}, toImageDocument(image))
	if err != nil {
		return fmt.Errorf("replace image: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("image %s: %w", image.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("image %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *ImageRepository) Get(ctx context.Context, id string) (*domain.Image, error) {
	var doc imageDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("image %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("find image: %w", err)
	}
	image := doc.toDomain()
	return &image, nil
}

func (r *ImageRepository) List(ctx context.Context, query domain.ImageQuery) ([]domain.Image, error) {
	cursor, err := r.coll.Find(ctx, imageFilter(query), options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find images: %w", err)
	}

	var docs []imageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}

	images := make([]domain.Image, len(docs))
	for i := range docs {
		images[i] = docs[i].toDomain()
	}
	return images, nil
}

var newestFirst = bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}

func imageFilter(query domain.ImageQuery) bson.D {
	filter := bson.D{}
	if query.UserID != "" {
		filter = append(filter, bson.E{Key: "user", Value: query.UserID})
	}
	if query.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: string(query.Category)})
	}
	return filter
}

func toImageDocument(image *domain.Image) imageDocument {
	urls := image.URLs
	if urls == nil {
		urls = []string{}
	}
	return imageDocument{
		ID:       image.ID,
		UserID:   image.UserID,
		Category: string(image.Category),
		Images:   urls,
		Date:     image.Date.UTC(),
	}
}

func (d imageDocument) toDomain() domain.Image {
	urls := d.Images
	if urls == nil {
		urls = []string{}
	}
	return domain.Image{
		ID:       d.ID,
		UserID:   d.UserID,
		Category: domain.Category(d.Category),
		URLs:     urls,
		Date:     d.Date,
	}
}
