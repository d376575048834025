package entity

import (
	"strconv"
	"strings"
)

// PlaceholderImage is shown when a volume has no thumbnail.
const PlaceholderImage = "/assets/images/book-placeholder.svg"

// Book is a snapshot of catalog data taken at fetch time. Identity is ID.
type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishedDate string   `json:"published_date"`
	Description   *string  `json:"description,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	Categories    []string `json:"categories"`
	PageCount     *int     `json:"page_count,omitempty"`
	Publisher     *string  `json:"publisher,omitempty"`
	Language      *string  `json:"language,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	RatingsCount  *int     `json:"ratings_count,omitempty"`
}

func (b Book) DisplayTitle() string {
	if b.Title == "" {
		return "Untitled"
	}
	return b.Title
}

func (b Book) DisplayAuthors() string {
	if len(b.Authors) == 0 {
		return "Author unknown"
	}
	return strings.Join(b.Authors, ", ")
}

func (b Book) DisplayPublishedDate() string {
	if b.PublishedDate == "" {
		return "Date unknown"
	}
	return b.PublishedDate
}

func (b Book) DisplayRating() string {
	if b.AverageRating == nil {
		return "No ratings available"
	}
	return strconv.FormatFloat(*b.AverageRating, 'f', -1, 64) + " / 5"
}

// Thumbnail returns the cover URL or the placeholder image.
func (b Book) Thumbnail() string {
	if b.ImageURL == nil || *b.ImageURL == "" {
		return PlaceholderImage
	}
	return *b.ImageURL
}
