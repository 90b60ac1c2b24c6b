package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ftthdesk/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const exportCSV = "\xef\xbb\xbfHorodateur;Nom et Prénoms du Client;Contact du Client;Second contact du Client;Ville/Commune d'habitation du Client;Quartier d'habitation;Numéro Ticket;Équipe\n" +
	"02/03/2025 08:15:00;Kouassi Jean;102030405.0;nan;Yopougon;Niangon;T1;EQ2\n" +
	"02/03/2025 08:20:00;Koné Aïcha;0707070707;;Cocody;Angré;;\n" +
	";;;;;;;\n" +
	"02/03/2025 09:00:00;Yao Paul;;;yopougon;Maroc;T3;\n" +
	"02/03/2025 09:30:00;Bamba Ali;;;;;;WINAT\n"

func readSample(t *testing.T) Sheet {
	t.Helper()
	sheet, err := ReadCSV(strings.NewReader(exportCSV))
	require.NoError(t, err)
	return sheet
}

func TestReadCSV(t *testing.T) {
	sheet := readSample(t)
	require.Len(t, sheet.Rows, 4, "blank line skipped")
	assert.Equal(t, "Horodateur", sheet.Headers[0], "byte order mark stripped")
	assert.Equal(t, "0102030405", sheet.Rows[0].Contact())
	assert.Equal(t, "Niangon", sheet.Rows[0].Neighborhood())
}

func TestReadCSV_CommaSeparated(t *testing.T) {
	sheet, err := ReadCSV(strings.NewReader("Nom et Prénoms du Client,Ville/Commune d'habitation du Client\n\"Yao, Paul\",Bouaké\n"))
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "Yao, Paul", sheet.Rows[0].ClientName())
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Nom et Prénoms du Client\n"))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestReadFile_UnsupportedFormat(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "export.ods"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{record.ColClientName, record.ColCity, record.ColContact}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Kouassi Jean", "Yopougon", "102030405"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	sheet, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "Kouassi Jean", sheet.Rows[0].ClientName())
	assert.Equal(t, "0102030405", sheet.Rows[0].Contact())
}

func TestReadFile_XLSXDatetimeTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{record.ColTimestamp, record.ColClientName, record.ColTeam}))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", time.Date(2025, 3, 2, 8, 15, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "Kouassi Jean"))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", "EQ2"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "03/03/2025 09:00:00"))
	require.NoError(t, f.SetCellValue("Sheet1", "B3", "Yao Paul"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	sheet, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "2025-03-02 08:15:00", sheet.Rows[0].Timestamp())
	assert.Equal(t, "03/03/2025 09:00:00", sheet.Rows[1].Timestamp(), "text timestamps are kept as typed")

	now := func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) }
	b := Plan(sheet, Options{DefaultTeam: "WINAT", Now: now})
	assert.Equal(t, "02-03-2025", b.DateKey)
	assert.Equal(t, "dossier_02-03-2025", b.OutputTag)
}

func TestReadFile_CSVFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.CSV")
	require.NoError(t, os.WriteFile(path, []byte(exportCSV), 0o644))
	sheet, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, sheet.Rows, 4)
}

func TestCities(t *testing.T) {
	assert.Equal(t, []string{"COCODY", "YOPOUGON"}, Cities(readSample(t)))
}

func TestFilterCity(t *testing.T) {
	rows := readSample(t).Rows
	assert.Len(t, FilterCity(rows, "YOPOUGON"), 2)
	assert.Len(t, FilterCity(rows, "cocody"), 1)
	assert.Len(t, FilterCity(rows, AllCities), 4)
	assert.Len(t, FilterCity(rows, ""), 4)
	assert.Empty(t, FilterCity(rows, "Bouaké"))
}

func TestPlan_StickyTeamsAndCityOrder(t *testing.T) {
	b := Plan(readSample(t), Options{DefaultTeam: "WINAT", DateLayout: "02-01-2006"})

	var order []string
	for _, a := range b.Ordered {
		order = append(order, a.Key)
	}
	// Cocody < Yopougon < yopougon, the row without a city goes last. Koné
	// has no team cell and keeps the default; Yao follows Kouassi's EQ2.
	assert.Equal(t, []string{"KonéAïcha_WINAT", "KouassiJean_EQ2", "YaoPaul_EQ2", "BambaAli_WINAT"}, order)
	assert.Len(t, b.Teams["EQ2"], 2)
	assert.Len(t, b.Teams["WINAT"], 2)
	assert.Equal(t, "02-03-2025", b.DateKey)
	assert.Equal(t, "dossier_02-03-2025", b.OutputTag)
}

func TestPlan_CityFilterAndDateOverride(t *testing.T) {
	b := Plan(readSample(t), Options{City: "Yopougon", DefaultTeam: "WINAT", Date: "05-03-2025"})
	assert.Len(t, b.Ordered, 2)
	assert.Equal(t, "05-03-2025", b.DateKey)
	assert.Equal(t, []string{"EQ2"}, keys(b.Teams))
}

func TestDateKey(t *testing.T) {
	now := time.Date(2025, 4, 9, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "02-03-2025", DateKey("02/03/2025 08:15:00", "02-01-2006", now))
	assert.Equal(t, "02-03-2025", DateKey("2025-03-02 08:15:00", "02-01-2006", now))
	assert.Equal(t, "2025-03-02", DateKey("2025-03-02", "2006-01-02", now))
	assert.Equal(t, "09-04-2025", DateKey("", "02-01-2006", now))
	assert.Equal(t, "09-04-2025", DateKey("not a date", "02-01-2006", now))
}

func keys(m map[string][]record.Assignment) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
