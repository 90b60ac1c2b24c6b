package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ftthdesk/internal/dossier"
)

const sampleSheet = "Horodateur;Nom et Prénoms du Client;Contact du Client;Ville/Commune d'habitation du Client;Quartier;Équipe\n" +
	"14/10/2026 08:12:00;Koné Aïcha;0701020304;ABIDJAN;Cocody;EQ1\n" +
	"14/10/2026 08:15:00;Yao Paul;701020305;BOUAKE;Centre;\n" +
	"14/10/2026 08:20:00;Bamba Ali;0701020306;ABIDJAN;Yopougon;EQ2\n"

// setupWorkspace points the global flags at a fresh workspace holding the
// sample sheet and returns the sheet path.
func setupWorkspace(t *testing.T) (string, string) {
	t.Helper()
	logger = zap.NewNop()

	ws := t.TempDir()
	workspace = ws
	importCity, importTeam, importDate, importNoRender = "", "", "", true
	renderDate, mirrorSearch = "", ""
	t.Cleanup(func() { workspace = "" })

	sheet := filepath.Join(ws, "reponses.csv")
	if err := os.WriteFile(sheet, []byte(sampleSheet), 0644); err != nil {
		t.Fatal(err)
	}
	return ws, sheet
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, &out
}

func TestInitCmd(t *testing.T) {
	ws, _ := setupWorkspace(t)
	cmd, _ := newTestCmd()

	if err := runInit(cmd, []string{}); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ws, ".ftth", "config.yaml")); os.IsNotExist(err) {
		t.Error("config.yaml was not created")
	}

	// Running it again keeps the existing file
	if err := runInit(cmd, []string{}); err != nil {
		t.Errorf("runInit second run failed: %v", err)
	}
}

func TestImportCmd(t *testing.T) {
	ws, sheet := setupWorkspace(t)
	cmd, out := newTestCmd()

	importDate = "14-10-2026"
	if err := runImport(cmd, []string{sheet}); err != nil {
		t.Fatalf("runImport failed: %v", err)
	}
	if !strings.Contains(out.String(), "14-10-2026") {
		t.Errorf("recap missing date: %s", out.String())
	}

	s, err := dossier.Open(filepath.Join(ws, "mg_telecom_db.json"))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.GlobalStats(); got.TotalClients != 3 || got.TotalDossiers != 1 {
		t.Errorf("unexpected stats after import: %+v", got)
	}

	// Importing again replaces rather than appends
	if err := runImport(cmd, []string{sheet}); err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	s, err = dossier.Open(filepath.Join(ws, "mg_telecom_db.json"))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.GlobalStats().TotalClients; got != 3 {
		t.Errorf("re-import changed totals: %d", got)
	}
}

func TestImportCmd_CityFilter(t *testing.T) {
	ws, sheet := setupWorkspace(t)
	cmd, _ := newTestCmd()

	importCity = "abidjan"
	importDate = "14-10-2026"
	if err := runImport(cmd, []string{sheet}); err != nil {
		t.Fatalf("runImport failed: %v", err)
	}
	s, err := dossier.Open(filepath.Join(ws, "mg_telecom_db.json"))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.GlobalStats().TotalClients; got != 2 {
		t.Errorf("expected 2 Abidjan clients, got %d", got)
	}

	importCity = "KORHOGO"
	if err := runImport(cmd, []string{sheet}); err == nil {
		t.Error("expected an error when no row matches the city")
	}
}

func TestImportCmd_Renders(t *testing.T) {
	ws, sheet := setupWorkspace(t)
	cmd, _ := newTestCmd()

	importDate = "14-10-2026"
	importNoRender = false
	if err := runImport(cmd, []string{sheet}); err != nil {
		t.Fatalf("runImport failed: %v", err)
	}
	for _, p := range []string{
		filepath.Join(ws, "dossier_14-10-2026", "Fiches_Installation_14-10-2026.pdf"),
		filepath.Join(ws, "dossier_14-10-2026", "Fiche_BambaAli_EQ2.png"),
		filepath.Join(ws, "dossier_14-10-2026", "site", "client_YaoPaul_EQ2.html"),
		filepath.Join(ws, "dashboard_EQ1.html"),
		filepath.Join(ws, "dashboard_admin.html"),
		filepath.Join(ws, "calendar.html"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing artifact %s: %v", p, err)
		}
	}
}

func TestStatusCmd(t *testing.T) {
	_, sheet := setupWorkspace(t)
	cmd, out := newTestCmd()

	if err := runStatus(cmd, []string{}); err != nil {
		t.Fatalf("runStatus on empty store failed: %v", err)
	}
	if !strings.Contains(out.String(), "none yet") {
		t.Errorf("empty store should say so: %s", out.String())
	}

	importDate = "14-10-2026"
	if err := runImport(cmd, []string{sheet}); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := runStatus(cmd, []string{}); err != nil {
		t.Fatalf("runStatus failed: %v", err)
	}
	for _, want := range []string{"EQ1", "EQ2", "14-10-2026"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("status output missing %q", want)
		}
	}
}

func TestCalendarCmd(t *testing.T) {
	_, sheet := setupWorkspace(t)
	cmd, out := newTestCmd()

	importDate = "14-10-2026"
	if err := runImport(cmd, []string{sheet}); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := runCalendar(cmd, []string{}); err != nil {
		t.Fatalf("runCalendar failed: %v", err)
	}

	var idx map[string][]struct {
		Team  string `json:"team"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal(out.Bytes(), &idx); err != nil {
		t.Fatalf("calendar output is not JSON: %v", err)
	}
	day := idx["2026-10-14"]
	// Rows are sorted by city before teams carry over, so Yao Paul (BOUAKE)
	// follows Bamba Ali into EQ2.
	if len(day) != 2 || day[0].Team != "EQ1" || day[0].Count != 1 || day[1].Count != 2 {
		t.Errorf("unexpected calendar day: %+v", day)
	}
}

func TestRenderCmd_UnknownDate(t *testing.T) {
	setupWorkspace(t)
	cmd, _ := newTestCmd()

	renderDate = "01-01-1999"
	if err := runRender(cmd, []string{}); err == nil {
		t.Error("expected error for an unknown date")
	}
}

func TestMirrorCmd(t *testing.T) {
	ws, sheet := setupWorkspace(t)
	cmd, out := newTestCmd()

	importDate = "14-10-2026"
	if err := runImport(cmd, []string{sheet}); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	mirrorSearch = "Bamba"
	if err := runMirror(cmd, []string{}); err != nil {
		t.Fatalf("runMirror failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ws, "mg_telecom_mirror.db")); err != nil {
		t.Errorf("mirror database missing: %v", err)
	}
	if !strings.Contains(out.String(), "Bamba Ali") {
		t.Errorf("search result missing: %s", out.String())
	}
}
