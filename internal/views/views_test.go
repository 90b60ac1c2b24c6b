package views

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"ftthdesk/internal/dossier"
	"ftthdesk/internal/record"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upsert struct {
	date  string
	teams map[string][]string
}

func build(t *testing.T, steps []upsert) *dossier.Store {
	t.Helper()
	clock := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	s, err := dossier.Open(filepath.Join(t.TempDir(), "db.json"),
		dossier.WithClock(func() time.Time { clock = clock.Add(time.Hour); return clock }))
	require.NoError(t, err)
	for _, st := range steps {
		m := map[string][]record.Assignment{}
		for team, names := range st.teams {
			for _, n := range names {
				row := record.NewRow([]string{record.ColClientName}, []string{n})
				m[team] = append(m[team], record.Normalize(row, team))
			}
		}
		_, err := s.Upsert(st.date, "dossier_"+st.date, m)
		require.NoError(t, err)
	}
	return s
}

var scenario = []upsert{
	{"01-03-2025", map[string][]string{"A": {"a1", "a2"}, "B": {"b1"}}},
	{"02-03-2025", map[string][]string{"B": {"b2", "b3", "b4", "b5"}}},
	{"backlog", map[string][]string{"C": {"c1"}}},
}

func reversed(in []upsert) []upsert {
	out := make([]upsert, len(in))
	for i := range in {
		out[len(in)-1-i] = in[i]
	}
	return out
}

func TestViewsIgnoreInsertionOrder(t *testing.T) {
	s1 := build(t, scenario)
	s2 := build(t, reversed(scenario))
	today := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)

	ignoreTimes := cmpopts.IgnoreFields(dossier.TeamDossier{}, "CreatedAt")
	for _, team := range []string{"A", "B", "C"} {
		if diff := cmp.Diff(ForTeam(s1, team), ForTeam(s2, team), ignoreTimes); diff != "" {
			t.Errorf("team %s view differs (-first +second):\n%s", team, diff)
		}
	}

	ignoreLatest := cmpopts.IgnoreFields(Overview{}, "Latest")
	if diff := cmp.Diff(Admin(s1, today, "02-01-2006"), Admin(s2, today, "02-01-2006"), ignoreLatest); diff != "" {
		t.Errorf("admin view differs:\n%s", diff)
	}
	if diff := cmp.Diff(Calendar(s1), Calendar(s2)); diff != "" {
		t.Errorf("calendar differs:\n%s", diff)
	}
}

func TestViewsAreRepeatable(t *testing.T) {
	s := build(t, scenario)
	today := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	first := Admin(s, today, "02-01-2006")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Admin(s, today, "02-01-2006"))
		assert.Equal(t, Calendar(s), Calendar(s))
	}
}

func TestForTeam(t *testing.T) {
	s := build(t, scenario)
	v := ForTeam(s, "B")
	assert.Equal(t, 5, v.Total)
	assert.Equal(t, 5, v.Ledger.TotalClients)
	assert.Equal(t, []string{"01-03-2025", "02-03-2025"}, v.Ledger.Dates)
	require.Len(t, v.Days, 2)
	assert.Equal(t, "02-03-2025", v.Days[0].Date)
	assert.Equal(t, 0, v.Provisioned)

	empty := ForTeam(s, "nobody")
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.Days)
}

func TestAdmin(t *testing.T) {
	s := build(t, scenario)
	o := Admin(s, time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC), "02-01-2006")

	assert.Equal(t, dossier.GlobalStats{TotalDossiers: 3, TotalClients: 8, TotalTeams: 3}, o.Stats)
	assert.Equal(t, []TeamCount{{"A", 2}, {"B", 5}, {"C", 1}}, o.Teams)
	assert.Equal(t, 1, o.TodayCount)
	require.NotNil(t, o.Latest)
	assert.Equal(t, "backlog", o.Latest.Date)
	assert.Equal(t, []DaySummary{
		{Date: "02-03-2025", Total: 4, Teams: []TeamCount{{"B", 4}}},
		{Date: "01-03-2025", Total: 3, Teams: []TeamCount{{"A", 2}, {"B", 1}}},
		{Date: "backlog", Total: 1, Teams: []TeamCount{{"C", 1}}},
	}, o.Days)
}

func TestCalendar(t *testing.T) {
	s := build(t, scenario)
	idx := Calendar(s)
	assert.Equal(t, []string{"2025-03-01", "2025-03-02"}, idx.Dates())
	assert.Equal(t, []CalendarEntry{{Team: "A", Count: 2, Preview: 2}, {Team: "B", Count: 1, Preview: 1}}, idx["2025-03-01"])
	assert.Equal(t, []CalendarEntry{{Team: "B", Count: 4, Preview: 3}}, idx["2025-03-02"])
}

func TestRecent(t *testing.T) {
	s := build(t, scenario)
	r := Recent(s, 2)
	require.Len(t, r, 2)
	assert.Equal(t, "02-03-2025", r[0].Date)
	assert.Equal(t, "dossier_02-03-2025", r[0].OutputTag)
	assert.Equal(t, 3, r[1].Total)
	assert.Len(t, Recent(s, 10), 3)
}

func TestAssignmentsOrdered(t *testing.T) {
	s := build(t, scenario)
	d, ok := s.Dossier("01-03-2025")
	require.True(t, ok)
	var keys []string
	for _, a := range Assignments(d) {
		keys = append(keys, fmt.Sprintf("%s/%s", a.Team, a.Key))
	}
	assert.Equal(t, []string{"A/a1_A", "A/a2_A", "B/b1_B"}, keys)
}
