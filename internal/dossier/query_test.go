package dossier

import (
	"testing"

	"ftthdesk/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKeyLess(t *testing.T) {
	assert.True(t, DateKeyLess("31-12-2024", "01-01-2025"))
	assert.False(t, DateKeyLess("01-01-2025", "31-12-2024"))
	assert.True(t, DateKeyLess("02-03-2025", "2-3-2025"), "same day falls back to lexical order")
	assert.True(t, DateKeyLess("01-01-2025", "someday"))
	assert.False(t, DateKeyLess("someday", "01-01-2025"))
}

func TestAllDossiers_MostRecentFirst(t *testing.T) {
	s, _ := openTemp(t)
	for _, date := range []string{"15-02-2025", "01-03-2025", "28-02-2025", "backlog", "1-3-2025"} {
		_, err := s.Upsert(date, "tag", batch("A", "client "+date))
		require.NoError(t, err)
	}

	var got []string
	for _, d := range s.AllDossiers() {
		got = append(got, d.Date)
	}
	// 1-3-2025 and 01-03-2025 are the same day; the later insertion comes first.
	assert.Equal(t, []string{"1-3-2025", "01-03-2025", "28-02-2025", "15-02-2025", "backlog"}, got)

	var inserted []string
	for _, d := range s.Dossiers() {
		inserted = append(inserted, d.Date)
	}
	assert.Equal(t, []string{"15-02-2025", "01-03-2025", "28-02-2025", "backlog", "1-3-2025"}, inserted)
}

func TestDossiersForTeam(t *testing.T) {
	s, _ := openTemp(t)
	_, err := s.Upsert("01-03-2025", "d1", map[string][]record.Assignment{
		"A": {assign("a1", "A")},
		"B": {assign("b1", "B"), assign("b2", "B")},
	})
	require.NoError(t, err)
	_, err = s.Upsert("02-03-2025", "d2", batch("A", "a2", "a3"))
	require.NoError(t, err)

	a := s.DossiersForTeam("A")
	require.Len(t, a, 2)
	assert.Equal(t, "02-03-2025", a[0].Date)
	assert.Equal(t, "d2", a[0].OutputTag)
	assert.Len(t, a[0].Assignments, 2)
	assert.Len(t, a[1].Assignments, 1)

	b := s.DossiersForTeam("B")
	require.Len(t, b, 1)
	assert.Equal(t, "01-03-2025", b[0].Date)
	assert.Empty(t, s.DossiersForTeam("nobody"))
}

func TestDossiersGroupedByDate(t *testing.T) {
	s, _ := openTemp(t)
	_, err := s.Upsert("01-03-2025", "d1", map[string][]record.Assignment{
		"A": {assign("a1", "A")},
		"B": {assign("b1", "B"), assign("b2", "B")},
	})
	require.NoError(t, err)
	_, err = s.Upsert("02-03-2025", "d2", batch("A", "a2"))
	require.NoError(t, err)

	got := s.DossiersGroupedByDate()
	assert.Equal(t, map[string]DayActivity{
		"01-03-2025": {Date: "01-03-2025", Teams: map[string]int{"A": 1, "B": 2}, Total: 3},
		"02-03-2025": {Date: "02-03-2025", Teams: map[string]int{"A": 1}, Total: 1},
	}, got)
}

func TestQueriesReturnCopies(t *testing.T) {
	s, _ := openTemp(t)
	_, err := s.Upsert("01-03-2025", "d1", batch("A", "a1"))
	require.NoError(t, err)

	d, _ := s.Dossier("01-03-2025")
	d.Teams["A"][0].Key = "mutated"
	d.Teams["Z"] = nil
	l, _ := s.TeamLedger("A")
	l.Dates[0] = "mutated"

	again, _ := s.Dossier("01-03-2025")
	assert.Equal(t, "a1_A", again.Teams["A"][0].Key)
	assert.NotContains(t, again.Teams, "Z")
	l2, _ := s.TeamLedger("A")
	assert.Equal(t, []string{"01-03-2025"}, l2.Dates)
}
