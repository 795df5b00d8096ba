package words_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/whoami-game/backend/internal/model/words"
)

func TestLoadMissingDirFallsBack(t *testing.T) {
	bank := words.Load(filepath.Join(t.TempDir(), "does-not-exist"))

	defaults := words.Defaults()
	if len(bank.Characters) != len(defaults.Characters) {
		t.Fatalf("expected %d fallback characters, got %d", len(defaults.Characters), len(bank.Characters))
	}
	if len(bank.Contexts) != len(defaults.Contexts) {
		t.Fatalf("expected %d fallback contexts, got %d", len(defaults.Contexts), len(bank.Contexts))
	}
	if len(bank.Characters) < 4 || len(bank.Contexts) < 4 {
		t.Fatalf("fallback lists must hold at least 4 entries, got %d and %d", len(bank.Characters), len(bank.Contexts))
	}
}

func TestLoadDropsBlankLinesAndTrims(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "characters.txt"), "  Zorro  \n\n\nAmelia Earhart\n")
	writeFile(t, filepath.Join(dir, "contexts.txt"), "At the opera\n   \nIn a submarine\n")

	bank := words.Load(dir)

	wantCharacters := []string{"Zorro", "Amelia Earhart"}
	if len(bank.Characters) != len(wantCharacters) {
		t.Fatalf("expected %d characters, got %v", len(wantCharacters), bank.Characters)
	}
	for i, want := range wantCharacters {
		if bank.Characters[i] != want {
			t.Fatalf("character %d: got %q want %q", i, bank.Characters[i], want)
		}
	}
	if len(bank.Contexts) != 2 {
		t.Fatalf("expected 2 contexts, got %v", bank.Contexts)
	}
}

func TestLoadEmptyFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "characters.txt"), "\n\n")
	writeFile(t, filepath.Join(dir, "contexts.txt"), "At the zoo\n")

	bank := words.Load(dir)

	if len(bank.Characters) == 0 {
		t.Fatal("empty characters file must fall back to the built-in list")
	}
	if len(bank.Contexts) != 1 || bank.Contexts[0] != "At the zoo" {
		t.Fatalf("unexpected contexts: %v", bank.Contexts)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
