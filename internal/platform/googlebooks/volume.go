package googlebooks

import "bookbrowser/internal/entity"

// Volume matches the volumes resource. Only the fields the browser reads are
// modelled; all of them may be missing.
type Volume struct {
	ID         string      `json:"id"`
	VolumeInfo *VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors"`
	PublishedDate string      `json:"publishedDate"`
	Description   *string     `json:"description"`
	ImageLinks    *ImageLinks `json:"imageLinks"`
	Categories    []string    `json:"categories"`
	PageCount     *int        `json:"pageCount"`
	Publisher     *string     `json:"publisher"`
	Language      *string     `json:"language"`
	AverageRating *float64    `json:"averageRating"`
	RatingsCount  *int        `json:"ratingsCount"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// DecodeVolume maps a volume into a Book. Missing strings stay empty, missing
// lists become empty slices and missing scalars stay nil; display fallbacks
// live on entity.Book.
func DecodeVolume(v Volume) entity.Book {
	b := entity.Book{
		ID:         v.ID,
		Authors:    []string{},
		Categories: []string{},
	}

	info := v.VolumeInfo
	if info == nil {
		return b
	}

	b.Title = info.Title
	b.PublishedDate = info.PublishedDate
	b.Description = nonEmpty(info.Description)
	b.PageCount = info.PageCount
	b.Publisher = nonEmpty(info.Publisher)
	b.Language = nonEmpty(info.Language)
	b.AverageRating = info.AverageRating
	b.RatingsCount = info.RatingsCount

	if len(info.Authors) > 0 {
		b.Authors = append(b.Authors, info.Authors...)
	}
	if len(info.Categories) > 0 {
		b.Categories = append(b.Categories, info.Categories...)
	}

	if info.ImageLinks != nil {
		thumb := info.ImageLinks.Thumbnail
		if thumb == "" {
			thumb = info.ImageLinks.SmallThumbnail
		}
		if thumb != "" {
			b.ImageURL = &thumb
		}
	}

	return b
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
