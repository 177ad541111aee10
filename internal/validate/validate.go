// Package validate normalizes raw article records and enforces the
// required-field invariants.
package validate

import (
	"fmt"

	"kpnews/internal/article"
	"kpnews/internal/text"
)

// DropError names the first required field that was empty after
// normalization. The record it belongs to is never persisted.
type DropError struct {
	Field string
}

func (e *DropError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Validate cleans every field of raw and returns the normalized
// article, or a *DropError for the first required field that is empty
// after cleaning. Checking is fail-fast; no violations accumulate.
func Validate(raw article.Raw) (article.Article, error) {
	a := article.Article{
		Title:               text.Clean(raw.Title),
		Description:         text.Clean(raw.Description),
		ArticleText:         text.Clean(raw.ArticleText),
		PublicationDatetime: text.NormalizeDatetime(raw.PublicationDatetime),
		Keywords:            text.CleanList(raw.Keywords),
		Authors:             text.CleanList(raw.Authors),
		SourceURL:           text.Clean(raw.SourceURL),
		HeaderPhotoURL:      text.Clean(raw.HeaderPhotoURL),
	}

	checks := []struct {
		field string
		empty bool
	}{
		{"title", a.Title == ""},
		{"description", a.Description == ""},
		{"article_text", a.ArticleText == ""},
		{"publication_datetime", a.PublicationDatetime == ""},
		{"keywords", len(a.Keywords) == 0},
		{"authors", len(a.Authors) == 0},
		{"source_url", a.SourceURL == ""},
	}
	for _, c := range checks {
		if c.empty {
			return article.Article{}, &DropError{Field: c.field}
		}
	}
	return a, nil
}
