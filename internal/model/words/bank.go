package words

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Bank holds the two word lists assignments are drawn from. It is loaded
// once at startup and never mutated afterwards.
type Bank struct {
	Characters []string
	Contexts   []string
}

// Defaults provides the built-in lists used when the data files are
// missing or unreadable, so the game stays playable offline.
func Defaults() *Bank {
	return &Bank{
		Characters: []string{
			"Harry Potter",
			"Sherlock Holmes",
			"Superman",
			"Batman",
		},
		Contexts: []string{
			"On a romantic date",
			"At the supermarket",
			"At a job interview",
			"At the dentist",
		},
	}
}

// Load reads characters.txt and contexts.txt from dir. Blank lines are
// dropped and entries trimmed. A list that cannot be read falls back to
// its default; Load never fails.
func Load(dir string) *Bank {
	defaults := Defaults()
	bank := &Bank{
		Characters: loadList(filepath.Join(dir, "characters.txt"), defaults.Characters),
		Contexts:   loadList(filepath.Join(dir, "contexts.txt"), defaults.Contexts),
	}
	return bank
}

func loadList(path string, fallback []string) []string {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("[words] cannot read %s: %v, using built-in list", path, err)
		return append([]string(nil), fallback...)
	}
	defer f.Close()

	var items []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			items = append(items, line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[words] error reading %s: %v, using built-in list", path, err)
		return append([]string(nil), fallback...)
	}
	if len(items) == 0 {
		log.Printf("[words] %s is empty, using built-in list", path)
		return append([]string(nil), fallback...)
	}
	return items
}
