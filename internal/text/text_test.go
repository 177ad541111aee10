package text

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a b c", Clean("  a\n\tb   c "))
	require.Equal(t, "", Clean(" \n\t "))
	require.Equal(t, "уже чистый", Clean("уже чистый"))
}

func TestCleanJoinDropsEmptyParts(t *testing.T) {
	t.Parallel()

	got := CleanJoin([]string{" first ", "", "\n", "second\npart"})
	require.Equal(t, "first second part", got)
}

func TestCleanListDeduplicatesPreservingOrder(t *testing.T) {
	t.Parallel()

	got := CleanList([]string{"A", "B", " A ", "", "C", "B"})
	require.Equal(t, []string{"A", "B", "C"}, got)

	require.Empty(t, CleanList([]string{"", "  "}))
}

func TestNormalizeDatetimeZuluToExplicitOffset(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2024-01-05T10:00:00+00:00", NormalizeDatetime("2024-01-05T10:00:00Z"))
}

func TestNormalizeDatetimeConvertsToUTC(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2024-01-05T07:00:00+00:00", NormalizeDatetime("2024-01-05T10:00:00+03:00"))
}

func TestNormalizeDatetimeNaiveAssumesUTC(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2024-01-05T10:00:00+00:00", NormalizeDatetime("2024-01-05T10:00:00"))
}

func TestNormalizeDatetimeUnparseablePassesThrough(t *testing.T) {
	t.Parallel()

	require.Equal(t, "not-a-date", NormalizeDatetime("not-a-date"))
	require.Equal(t, "5 января 2024", NormalizeDatetime(" 5 января\n2024 "))
	require.Equal(t, "", NormalizeDatetime("   "))
}
