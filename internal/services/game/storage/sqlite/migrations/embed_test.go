package migrations

import (
	"io/fs"
	"sort"
	"strings"
	"testing"
)

func TestJournalMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(JournalFS, "journal")
	if err != nil {
		t.Fatalf("read journal migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected journal migrations to be embedded")
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	if files[0] != "001_journal.sql" {
		t.Fatalf("expected first journal migration 001_journal.sql, got %s", files[0])
	}
	for _, name := range files {
		content, err := fs.ReadFile(JournalFS, "journal/"+name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.Contains(string(content), "-- +migrate Up") {
			t.Fatalf("%s is missing the up marker", name)
		}
	}
}
