package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBook_DisplayFallbacks(t *testing.T) {
	var b Book

	assert.Equal(t, "Untitled", b.DisplayTitle())
	assert.Equal(t, "Author unknown", b.DisplayAuthors())
	assert.Equal(t, "Date unknown", b.DisplayPublishedDate())
	assert.Equal(t, "No ratings available", b.DisplayRating())
	assert.Equal(t, PlaceholderImage, b.Thumbnail())
}

func TestBook_DisplayValues(t *testing.T) {
	rating := 4.5
	img := "http://books.example/cover.jpg"
	b := Book{
		Title:         "Dune",
		Authors:       []string{"Frank Herbert", "Brian Herbert"},
		PublishedDate: "1965",
		AverageRating: &rating,
		ImageURL:      &img,
	}

	assert.Equal(t, "Dune", b.DisplayTitle())
	assert.Equal(t, "Frank Herbert, Brian Herbert", b.DisplayAuthors())
	assert.Equal(t, "1965", b.DisplayPublishedDate())
	assert.Equal(t, "4.5 / 5", b.DisplayRating())
	assert.Equal(t, img, b.Thumbnail())
}
