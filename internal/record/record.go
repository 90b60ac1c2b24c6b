// Package record turns raw spreadsheet rows into canonical installation
// records and derives the artifact key that names every generated file.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Record is one customer installation request after cleaning. Absent fields
// are stored as "" and only replaced by placeholders when displayed.
type Record struct {
	ClientName       string `json:"Nom et Prénoms du Client"`
	Contact          string `json:"Contact du Client"`
	SecondContact    string `json:"Second contact du Client"`
	City             string `json:"Ville/Commune d'habitation du Client"`
	Neighborhood     string `json:"Quartier"`
	Provenance       string `json:"Provenance"`
	Ticket           string `json:"Numéro Ticket"`
	Plan             string `json:"Forfaits FTTH"`
	TransmissionDate string `json:"Date de Transmission"`
	// TechnicalID stays empty until the line is provisioned.
	TechnicalID string `json:"Numéro FTTH (TN)"`
}

// FromRow cleans every known column of row.
func FromRow(row Row) Record {
	return Record{
		ClientName:       row.ClientName(),
		Contact:          row.Contact(),
		SecondContact:    row.SecondContact(),
		City:             row.City(),
		Neighborhood:     row.Neighborhood(),
		Provenance:       row.Provenance(),
		Ticket:           row.Ticket(),
		Plan:             row.Plan(),
		TransmissionDate: row.TransmissionDate(),
		TechnicalID:      row.TechnicalID(),
	}
}

// Provisioned reports whether a technical identifier has been issued.
func (r Record) Provisioned() bool { return r.TechnicalID != "" }

func orDefault(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}

func (r Record) DisplayName() string      { return orDefault(r.ClientName, PlaceholderUnknownName) }
func (r Record) DisplayProvenance() string { return orDefault(r.Provenance, PlaceholderDirect) }
func (r Record) DisplayTicket() string     { return orDefault(r.Ticket, PlaceholderNotProvided) }
func (r Record) DisplayPlan() string       { return orDefault(r.Plan, PlaceholderPlan) }
func (r Record) DisplayTechnicalID() string {
	return orDefault(r.TechnicalID, PlaceholderToGenerate)
}
func (r Record) DisplayTransmissionDate() string {
	return orDefault(r.TransmissionDate, PlaceholderToConfirm)
}

// DisplayContacts joins both phone numbers the way the cards print them.
func (r Record) DisplayContacts() string {
	return r.Contact + " / " + r.SecondContact
}

// DisplayLocation joins city and neighborhood, dropping the separator when
// the neighborhood is unknown.
func (r Record) DisplayLocation() string {
	if r.Neighborhood == "" {
		return r.City
	}
	return r.City + " – " + r.Neighborhood
}

// UnmarshalJSON accepts any scalar per column so stores written by older
// tooling, which kept raw cells with numbers and nulls, still load.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	cells := make(map[string]string, len(raw))
	for k, v := range raw {
		switch tv := v.(type) {
		case nil:
			cells[k] = ""
		case string:
			cells[k] = tv
		case json.Number:
			cells[k] = tv.String()
		case bool, float64:
			cells[k] = fmt.Sprint(tv)
		default:
			// nested values are never meaningful cells
			cells[k] = ""
		}
	}
	*r = FromRow(RowFromMap(cells))
	return nil
}

// Assignment pairs a record with its team and artifact key.
type Assignment struct {
	Record Record
	Team   string
	Key    string
}

// Normalize cleans row and binds it to team. The key is computed here once
// and carried by the assignment from then on. The key placeholder applies
// only when the sheet has no name column; an absent name leaves the key
// with an empty name part.
func Normalize(row Row, team string) Assignment {
	team = SafeTeamName(CleanValue(team, ""))
	name := PlaceholderKeyName
	if v, ok := row.Raw(ColClientName); ok {
		name = CleanValue(v, "")
	}
	return Assignment{
		Record: FromRow(row),
		Team:   team,
		Key:    ArtifactKey(name, team),
	}
}

// MarshalJSON writes the assignment as a [record, key] pair. The team is
// implied by the map the assignment is stored under.
func (a Assignment) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{a.Record, a.Key})
}

func (a *Assignment) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("assignment: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("assignment: expected [record, key] pair, got %d elements", len(pair))
	}
	var rec Record
	if err := json.Unmarshal(pair[0], &rec); err != nil {
		return fmt.Errorf("assignment record: %w", err)
	}
	var key string
	if err := json.Unmarshal(pair[1], &key); err != nil {
		return fmt.Errorf("assignment key: %w", err)
	}
	a.Record = rec
	a.Key = strings.TrimSpace(key)
	return nil
}
