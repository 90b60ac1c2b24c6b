package dossier

import "sort"

// recompute reduces the dossier list to team ledgers and global stats. It is
// the only producer of derived values; nothing is ever patched in place.
func recompute(dossiers []Dossier) (map[string]TeamLedger, GlobalStats) {
	ledgers := make(map[string]TeamLedger)
	dates := make(map[string]map[string]struct{})
	stats := GlobalStats{TotalDossiers: len(dossiers)}

	for _, d := range dossiers {
		for team, as := range d.Teams {
			l := ledgers[team]
			l.TotalClients += len(as)
			ledgers[team] = l
			stats.TotalClients += len(as)

			if dates[team] == nil {
				dates[team] = make(map[string]struct{})
			}
			dates[team][d.Date] = struct{}{}
		}
	}

	for team, set := range dates {
		keys := make([]string, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return DateKeyLess(keys[i], keys[j]) })
		l := ledgers[team]
		l.Dates = keys
		ledgers[team] = l
	}
	stats.TotalTeams = len(ledgers)
	return ledgers, stats
}
