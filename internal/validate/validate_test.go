package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"kpnews/internal/article"
)

func validRaw() article.Raw {
	return article.Raw{
		Title:               "  Заголовок  новости ",
		Description:         "Описание",
		ArticleText:         "Текст\nстатьи",
		PublicationDatetime: "2024-01-05T10:00:00Z",
		Keywords:            []string{"A", "B", "A", "C"},
		Authors:             []string{"A", "B", "A", "C"},
		SourceURL:           "https://www.kp.ru/online/news/1/",
		HeaderPhotoURL:      "https://www.kp.ru/img/1.jpg",
	}
}

func TestValidateNormalizesFields(t *testing.T) {
	t.Parallel()

	a, err := Validate(validRaw())
	require.NoError(t, err)

	require.Equal(t, "Заголовок новости", a.Title)
	require.Equal(t, "Текст статьи", a.ArticleText)
	require.Equal(t, "2024-01-05T10:00:00+00:00", a.PublicationDatetime)
	require.Equal(t, []string{"A", "B", "C"}, a.Keywords)
	require.Equal(t, []string{"A", "B", "C"}, a.Authors)
}

func TestValidateKeepsUnparseableDatetime(t *testing.T) {
	t.Parallel()

	raw := validRaw()
	raw.PublicationDatetime = "not-a-date"
	a, err := Validate(raw)
	require.NoError(t, err)
	require.Equal(t, "not-a-date", a.PublicationDatetime)
}

func TestValidateDropsFirstFailingField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*article.Raw)
		field  string
	}{
		{"empty title", func(r *article.Raw) { r.Title = " \n " }, "title"},
		{"empty description", func(r *article.Raw) { r.Description = "" }, "description"},
		{"empty text", func(r *article.Raw) { r.ArticleText = "" }, "article_text"},
		{"empty datetime", func(r *article.Raw) { r.PublicationDatetime = "" }, "publication_datetime"},
		{"keywords all blank", func(r *article.Raw) { r.Keywords = []string{"", "  "} }, "keywords"},
		{"no authors", func(r *article.Raw) { r.Authors = nil }, "authors"},
		{"no source url", func(r *article.Raw) { r.SourceURL = "" }, "source_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := validRaw()
			tt.mutate(&raw)
			_, err := Validate(raw)

			var drop *DropError
			require.ErrorAs(t, err, &drop)
			require.Equal(t, tt.field, drop.Field)
		})
	}
}

func TestValidateFailsFastOnFirstField(t *testing.T) {
	t.Parallel()

	raw := validRaw()
	raw.Title = ""
	raw.Authors = nil
	_, err := Validate(raw)

	var drop *DropError
	require.True(t, errors.As(err, &drop))
	require.Equal(t, "title", drop.Field)
}
