package hook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func settingsPath(home string) string {
	return filepath.Join(home, ".claude", "settings.json")
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	return m
}

func hasEvent(settings map[string]any, event string) bool {
	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		return false
	}
	return eventHasRecapHook(hooks, event)
}

func recapEntry() map[string]any {
	return map[string]any{
		"matcher": "",
		"hooks": []any{
			map[string]any{"type": "command", "command": "recap hook"},
		},
	}
}

func otherEntry() map[string]any {
	return map[string]any{
		"matcher": "",
		"hooks": []any{
			map[string]any{"type": "command", "command": "other-tool"},
		},
	}
}

func TestInstall_NoFile(t *testing.T) {
	home := setupHome(t)

	if err := Install(); err != nil {
		t.Fatal(err)
	}

	path := settingsPath(home)
	settings := readJSON(t, path)
	if !hasEvent(settings, "Stop") {
		t.Error("missing Stop hook")
	}
	if hasEvent(settings, "SessionEnd") {
		t.Error("SessionEnd should not be registered")
	}

	// No backup should exist (no source file existed)
	if _, err := os.Stat(path + ".recap.bak"); !os.IsNotExist(err) {
		t.Error("backup should not exist for fresh install")
	}
}

func TestInstall_EmptyFile(t *testing.T) {
	home := setupHome(t)
	path := settingsPath(home)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Install(); err != nil {
		t.Fatal(err)
	}

	settings := readJSON(t, path)
	if !hasEvent(settings, "Stop") {
		t.Error("missing Stop hook")
	}
}

func TestInstall_ExistingSettingsNoHooks(t *testing.T) {
	home := setupHome(t)
	path := settingsPath(home)
	writeJSON(t, path, map[string]any{
		"permissions": map[string]any{"allow": true},
		"verbose":     false,
	})

	if err := Install(); err != nil {
		t.Fatal(err)
	}

	settings := readJSON(t, path)
	if !hasEvent(settings, "Stop") {
		t.Error("missing Stop hook")
	}
	if _, ok := settings["permissions"]; !ok {
		t.Error("existing 'permissions' key was lost")
	}
	if _, ok := settings["verbose"]; !ok {
		t.Error("existing 'verbose' key was lost")
	}
}

func TestInstall_PreservesExistingHooks(t *testing.T) {
	home := setupHome(t)
	path := settingsPath(home)
	writeJSON(t, path, map[string]any{
		"hooks": map[string]any{
			"Stop":       []any{otherEntry()},
			"SessionEnd": []any{otherEntry()},
		},
	})

	if err := Install(); err != nil {
		t.Fatal(err)
	}

	settings := readJSON(t, path)
	hooks := settings["hooks"].(map[string]any)
	if stop := hooks["Stop"].([]any); len(stop) != 2 {
		t.Errorf("expected 2 Stop entries, got %d", len(stop))
	}
	if end := hooks["SessionEnd"].([]any); len(end) != 1 {
		t.Errorf("SessionEnd should be untouched, got %d entries", len(end))
	}
}

func TestInstall_Idempotent(t *testing.T) {
	home := setupHome(t)

	if err := Install(); err != nil {
		t.Fatal(err)
	}

	path := settingsPath(home)
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Second install is a no-op
	if err := Install(); err != nil {
		t.Fatal(err)
	}

	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Error("idempotent install modified the file")
	}

	settings := readJSON(t, path)
	hooks := settings["hooks"].(map[string]any)
	if stop := hooks["Stop"].([]any); len(stop) != 1 {
		t.Errorf("expected 1 Stop entry after idempotent install, got %d", len(stop))
	}
}

func TestInstall_CreatesBackup(t *testing.T) {
	home := setupHome(t)
	path := settingsPath(home)

	writeJSON(t, path, map[string]any{"existing": "data"})

	origContent, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := Install(); err != nil {
		t.Fatal(err)
	}

	backupContent, err := os.ReadFile(path + ".recap.bak")
	if err != nil {
		t.Fatal("backup file should exist")
	}

	if string(origContent) != string(backupContent) {
		t.Error("backup content should match original file")
	}
}

func TestInstall_MalformedJSON(t *testing.T) {
	home := setupHome(t)
	path := settingsPath(home)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{invalid json}"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Install()
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("error should mention parsing, got: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "{invalid json}" {
		t.Error("malformed JSON file should not be modified")
	}

	if _, err := os.Stat(path + ".recap.bak"); !os.IsNotExist(err) {
		t.Error("no backup should be created for malformed JSON")
	}
}

func TestInstalled(t *testing.T) {
	setupHome(t)

	ok, err := Installed()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("fresh home should not report installed")
	}

	if err := Install(); err != nil {
		t.Fatal(err)
	}
	ok, err = Installed()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected installed after Install")
	}
}

func TestUninstall_RemovesHooks(t *testing.T) {
	home := setupHome(t)

	if err := Install(); err != nil {
		t.Fatal(err)
	}

	if err := Uninstall(); err != nil {
		t.Fatal(err)
	}

	settings := readJSON(t, settingsPath(home))
	if hasEvent(settings, "Stop") {
		t.Error("Stop hook should be removed")
	}
}

func TestUninstall_PreservesOtherHooks(t *testing.T) {
	home := setupHome(t)
	path := settingsPath(home)

	writeJSON(t, path, map[string]any{
		"hooks": map[string]any{
			"Stop":       []any{otherEntry(), recapEntry()},
			"SessionEnd": []any{otherEntry()},
		},
	})

	if err := Uninstall(); err != nil {
		t.Fatal(err)
	}

	settings := readJSON(t, path)
	hooks := settings["hooks"].(map[string]any)

	stop, ok := hooks["Stop"].([]any)
	if !ok || len(stop) != 1 {
		t.Errorf("expected 1 Stop entry (other-tool), got %v", hooks["Stop"])
	}
	if _, ok := hooks["SessionEnd"]; !ok {
		t.Error("unrelated SessionEnd entries should be kept")
	}
	if _, err := os.Stat(path + ".recap.bak"); err != nil {
		t.Error("uninstall should back up settings first")
	}
}

func TestUninstall_NotInstalled(t *testing.T) {
	setupHome(t)

	if err := Uninstall(); err != nil {
		t.Fatalf("expected nil error, got: %v", err)
	}
}

func TestUninstall_CleansEmptyHooksMap(t *testing.T) {
	home := setupHome(t)

	if err := Install(); err != nil {
		t.Fatal(err)
	}
	if err := Uninstall(); err != nil {
		t.Fatal(err)
	}

	settings := readJSON(t, settingsPath(home))
	if _, ok := settings["hooks"]; ok {
		t.Error("empty hooks map should be removed entirely")
	}
}
