package record

import (
	"sort"
	"strings"
)

// Spreadsheet column headers of the installation request export.
const (
	ColClientName       = "Nom et Prénoms du Client"
	ColContact          = "Contact du Client"
	ColSecondContact    = "Second contact du Client"
	ColCity             = "Ville/Commune d'habitation du Client"
	ColNeighborhood     = "Quartier"
	ColProvenance       = "Provenance"
	ColTicket           = "Numéro Ticket"
	ColPlan             = "Forfaits FTTH"
	ColTechnicalID      = "Numéro FTTH (TN)"
	ColTransmissionDate = "Date de Transmission"
	ColTimestamp        = "Horodateur"
	ColTeam             = "Équipe"
)

// Row is one raw spreadsheet line keyed by header. Cells are kept exactly as
// read; every accessor cleans on the way out.
type Row struct {
	cells map[string]string
	// order keeps header order so the neighborhood lookup is deterministic.
	order []string
}

// NewRow builds a row from header/value pairs. Headers are trimmed.
func NewRow(headers, values []string) Row {
	r := Row{cells: make(map[string]string, len(headers))}
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		v := ""
		if i < len(values) {
			v = values[i]
		}
		if _, dup := r.cells[h]; !dup {
			r.order = append(r.order, h)
		}
		r.cells[h] = v
	}
	return r
}

// RowFromMap builds a row from an unordered cell map, ordering headers
// lexically.
func RowFromMap(cells map[string]string) Row {
	headers := make([]string, 0, len(cells))
	for h := range cells {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	values := make([]string, len(headers))
	for i, h := range headers {
		values[i] = cells[h]
	}
	return NewRow(headers, values)
}

// Raw returns the uncleaned cell for header and whether the column exists.
func (r Row) Raw(header string) (string, bool) {
	v, ok := r.cells[header]
	return v, ok
}

// Field returns the cleaned value of header, or placeholder when the column
// is missing or holds an absent value.
func (r Row) Field(header, placeholder string) string {
	v, ok := r.cells[header]
	if !ok {
		return placeholder
	}
	return CleanValue(v, placeholder)
}

// neighborhoodColumn finds the first header mentioning "Quartier"; exports
// disagree on the exact wording.
func (r Row) neighborhoodColumn() (string, bool) {
	for _, h := range r.order {
		if strings.Contains(h, ColNeighborhood) {
			return h, true
		}
	}
	return "", false
}

func (r Row) ClientName() string       { return r.Field(ColClientName, "") }
func (r Row) Contact() string          { return FormatPhone(r.Field(ColContact, "")) }
func (r Row) SecondContact() string    { return FormatPhone(r.Field(ColSecondContact, "")) }
func (r Row) City() string             { return r.Field(ColCity, "") }
func (r Row) Provenance() string       { return r.Field(ColProvenance, "") }
func (r Row) Ticket() string           { return r.Field(ColTicket, "") }
func (r Row) Plan() string             { return r.Field(ColPlan, "") }
func (r Row) TechnicalID() string      { return r.Field(ColTechnicalID, "") }
func (r Row) TransmissionDate() string { return r.Field(ColTransmissionDate, "") }
func (r Row) Timestamp() string        { return r.Field(ColTimestamp, "") }
func (r Row) Team() string             { return r.Field(ColTeam, "") }

func (r Row) Neighborhood() string {
	h, ok := r.neighborhoodColumn()
	if !ok {
		return ""
	}
	return r.Field(h, "")
}
