package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"photo-gallery/internal/domain"
)

func TestImageFilter(t *testing.T) {
	tests := []struct {
		name  string
		query domain.ImageQuery
		want  bson.D
	}{
		{name: "empty matches all", query: domain.ImageQuery{}, want: bson.D{}},
		{name: "owner only", query: domain.ImageQuery{UserID: "u-1"}, want: bson.D{{Key: "user", Value: "u-1"}}},
		{name: "category only", query: domain.ImageQuery{Category: domain.CategoryEvent}, want: bson.D{{Key: "category", Value: "Event"}}},
		{
			name:  "owner and category",
			query: domain.ImageQuery{UserID: "u-1", Category: domain.CategoryWedding},
			want:  bson.D{{Key: "user", Value: "u-1"}, {Key: "category", Value: "Wedding"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, imageFilter(tt.query))
		})
	}
}

func TestImageDocumentNeverStoresNilURLs(t *testing.T) {
	doc := toImageDocument(&domain.Image{ID: "i", UserID: "u", Category: domain.CategoryPortrait, Date: time.Now()})
	assert.NotNil(t, doc.Images)
	assert.Empty(t, doc.Images)

	image := imageDocument{ID: "i"}.toDomain()
	assert.NotNil(t, image.URLs)
}

func TestUserDocumentDefaultsRole(t *testing.T) {
	user := userDocument{ID: "u", Email: "a@b.c"}.toDomain()
	assert.Equal(t, domain.RoleUser, user.Role)
}
