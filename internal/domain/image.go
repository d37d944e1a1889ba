package domain

import "time"

type Category string

const (
	CategoryPortrait Category = "Portrait"
	CategoryEvent    Category = "Event"
	CategoryWedding  Category = "Wedding"
)

// Categories lists every category an image record may belong to.
var Categories = []Category{CategoryPortrait, CategoryEvent, CategoryWedding}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Image is a catalog record grouping the media URLs of one upload.
type Image struct {
	ID       string
	UserID   string
	Category Category
	URLs     []string
	Date     time.Time
}

// ImageQuery narrows catalog listings. Empty fields match everything.
type ImageQuery struct {
	UserID   string
	Category Category
}
