package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const fullArticleHTML = `<!DOCTYPE html>
<html>
<head>
<title>Fallback title - KP.RU</title>
<meta property="og:title" content="OG title">
<meta name="description" content="Краткое   описание">
<meta property="og:description" content="OG description">
<meta name="keywords" content="политика, экономика , политика">
<meta property="article:published_time" content="2024-01-05T13:00:00+03:00">
<meta property="og:image" content="/share/img/cover.jpg">
<meta name="author" content="Мета Автор">
</head>
<body>
<h1>
  Главная   новость
</h1>
<time datetime="2024-01-05T10:00:00Z">5 января</time>
<div data-gtm-el="content-body">
  <p>Первый  абзац.</p>
  <p> Второй абзац. </p>
</div>
<article><p>Should not be used</p></article>
<a href="/tags/news/">новости</a>
<span class="tag-item">теги</span>
<a href="/daily/author/123/">Иван Иванов</a>
<span class="author-name">Иван Иванов</span>
<figure><img src="/img/figure.jpg"></figure>
<a href="/online/news/5312345/">ссылка</a>
<a href="mailto:tips@kp.ru">почта</a>
</body>
</html>`

const pageURL = "https://www.kp.ru/online/news/5312345/"

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestExtractFullPage(t *testing.T) {
	t.Parallel()

	raw := Extract(doc(t, fullArticleHTML), pageURL)

	require.Equal(t, "Главная новость", raw.Title)
	require.Equal(t, "Краткое описание", raw.Description)
	require.Equal(t, "Первый абзац. Второй абзац.", raw.ArticleText)
	require.Equal(t, "2024-01-05T10:00:00Z", raw.PublicationDatetime)
	require.Equal(t, []string{"политика", "экономика", "новости", "теги"}, raw.Keywords)
	require.Equal(t, []string{"Иван Иванов", "Мета Автор"}, raw.Authors)
	require.Equal(t, pageURL, raw.SourceURL)
	require.Equal(t, "https://www.kp.ru/share/img/cover.jpg", raw.HeaderPhotoURL)
}

func TestTitleFallbackChain(t *testing.T) {
	t.Parallel()

	raw := Extract(doc(t, `<html><head><meta property="og:title" content="OG заголовок"><title>Doc title</title></head><body></body></html>`), pageURL)
	require.Equal(t, "OG заголовок", raw.Title)

	raw = Extract(doc(t, `<html><head><title>Doc title</title></head><body></body></html>`), pageURL)
	require.Equal(t, "Doc title", raw.Title)
}

func TestArticleTextUsesFirstMatchingContainer(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<div class="article__text"><p>Из контейнера текста</p></div>
<article><p>Из article</p></article>
</body></html>`
	raw := Extract(doc(t, html), pageURL)
	require.Equal(t, "Из контейнера текста", raw.ArticleText)
}

func TestRepairRulesCopyTitleIntoEmptyFields(t *testing.T) {
	t.Parallel()

	raw := Extract(doc(t, `<html><body><h1>A</h1></body></html>`), pageURL)
	require.Equal(t, "A", raw.Title)
	require.Equal(t, "A", raw.Description)
	require.Equal(t, "A", raw.ArticleText)

	html := `<html><head><meta name="description" content="B"></head><body><h1>A</h1></body></html>`
	raw = Extract(doc(t, html), pageURL)
	require.Equal(t, "B", raw.Description)
	require.Equal(t, "B", raw.ArticleText)
}

func TestDatetimeSecondaryFallbackScansDateClasses(t *testing.T) {
	t.Parallel()

	html := `<html><body><h1>A</h1><span class="article-date">5 января 2024</span></body></html>`
	raw := Extract(doc(t, html), pageURL)
	require.Equal(t, "5 января 2024", raw.PublicationDatetime)
}

func TestKeywordsFallBackToURLSlug(t *testing.T) {
	t.Parallel()

	raw := Extract(doc(t, `<html><body><h1>A</h1></body></html>`), "https://www.kp.ru/daily/theme/1087/")
	require.Equal(t, []string{"daily", "theme", "1087"}, raw.Keywords)
}

func TestAuthorsDefaultToSource(t *testing.T) {
	t.Parallel()

	raw := Extract(doc(t, `<html><body><h1>A</h1></body></html>`), pageURL)
	require.Equal(t, []string{"kp.ru"}, raw.Authors)
}

func TestHeaderPhotoFallsBackToFigureImage(t *testing.T) {
	t.Parallel()

	html := `<html><body><figure><img src="/img/1.jpg"></figure></body></html>`
	raw := Extract(doc(t, html), pageURL)
	require.Equal(t, "https://www.kp.ru/img/1.jpg", raw.HeaderPhotoURL)
}

func TestLinksResolveAndDeduplicate(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<a href="/online/news/1/">a</a>
<a href="/online/news/1/">dup</a>
<a href="https://www.kp.ru/online/news/2/">b</a>
<a href="mailto:x@kp.ru">mail</a>
</body></html>`
	links := Links(doc(t, html), "https://www.kp.ru/online/")
	require.Equal(t, []string{
		"https://www.kp.ru/online/news/1/",
		"https://www.kp.ru/online/news/2/",
	}, links)
}

func TestListingLinksFollowQueryOrder(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<main><a href="/other/page/">other</a></main>
<article><a href="/online/news/7/">article link</a></article>
<a href="/daily/27.05.2024/100/">daily</a>
</body></html>`
	links := ListingLinks(doc(t, html), "https://www.kp.ru/online/")
	require.Equal(t, []string{
		"https://www.kp.ru/daily/27.05.2024/100/",
		"https://www.kp.ru/online/news/7/",
		"https://www.kp.ru/other/page/",
	}, links)
}

func TestNextListingPage(t *testing.T) {
	t.Parallel()

	html := `<html><body><a class="pagination-next" href="/online/?page=2">2</a></body></html>`
	require.Equal(t, "https://www.kp.ru/online/?page=2", NextListingPage(doc(t, html), "https://www.kp.ru/online/"))

	html = `<html><body><a href="/online/?page=2">Следующая</a></body></html>`
	require.Equal(t, "https://www.kp.ru/online/?page=2", NextListingPage(doc(t, html), "https://www.kp.ru/online/"))

	require.Equal(t, "", NextListingPage(doc(t, "<html><body></body></html>"), "https://www.kp.ru/online/"))
}
