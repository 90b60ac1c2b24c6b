package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func resetState() {
	CloseAll()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	settings = Settings{}
}

func readLog(t *testing.T, ws string, cat Category) string {
	t.Helper()
	name := time.Now().Format("2006-01-02") + "_" + string(cat) + ".log"
	data, err := os.ReadFile(filepath.Join(ws, ".ftth", "logs", name))
	if err != nil {
		t.Fatalf("read %s log: %v", cat, err)
	}
	return string(data)
}

func TestAllCategoriesLog(t *testing.T) {
	resetState()
	defer resetState()

	ws := t.TempDir()
	if err := Initialize(ws, Settings{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !IsDebugMode() {
		t.Fatal("expected debug mode to be enabled")
	}

	for _, cat := range []Category{CategoryBoot, CategoryStore, CategoryIngest, CategoryRender, CategoryMirror} {
		Get(cat).Info("hello from %s", cat)
	}
	CloseAll()

	for _, cat := range []Category{CategoryStore, CategoryIngest, CategoryRender, CategoryMirror} {
		if content := readLog(t, ws, cat); !strings.Contains(content, "hello from "+string(cat)) {
			t.Errorf("category %s log missing message, got %q", cat, content)
		}
	}
}

func TestProductionModeWritesNothing(t *testing.T) {
	resetState()
	defer resetState()

	ws := t.TempDir()
	if err := Initialize(ws, Settings{DebugMode: false}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	Store("should not appear")

	if _, err := os.Stat(filepath.Join(ws, ".ftth", "logs")); !os.IsNotExist(err) {
		t.Errorf("logs directory should not exist in production mode, stat err=%v", err)
	}
}

func TestDisabledCategoryIsNoop(t *testing.T) {
	resetState()
	defer resetState()

	ws := t.TempDir()
	s := Settings{DebugMode: true, Categories: map[string]bool{"render": false}}
	if err := Initialize(ws, s); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if IsCategoryEnabled(CategoryRender) {
		t.Error("render should be disabled")
	}
	if !IsCategoryEnabled(CategoryStore) {
		t.Error("unlisted categories default to enabled")
	}
	Render("dropped")
	CloseAll()

	name := time.Now().Format("2006-01-02") + "_render.log"
	if _, err := os.Stat(filepath.Join(ws, ".ftth", "logs", name)); !os.IsNotExist(err) {
		t.Error("disabled category must not create a log file")
	}
}

func TestLevelFiltering(t *testing.T) {
	resetState()
	defer resetState()

	ws := t.TempDir()
	if err := Initialize(ws, Settings{DebugMode: true, Level: "warn"}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	StoreDebug("debug-line")
	StoreWarn("warn-line")
	CloseAll()

	content := readLog(t, ws, CategoryStore)
	if strings.Contains(content, "debug-line") {
		t.Error("debug entry should be filtered at warn level")
	}
	if !strings.Contains(content, "warn-line") {
		t.Error("warn entry should be written")
	}
}

func TestInitializeRequiresWorkspace(t *testing.T) {
	if err := Initialize("", Settings{}); err == nil {
		t.Error("expected error for empty workspace")
	}
}
