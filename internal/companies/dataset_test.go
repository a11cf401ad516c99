package companies

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeDataset(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "TnC.csv")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestLoadParsesRows(t *testing.T) {
	path := writeDataset(t, "Sl No,Company Name,Terms & Conditions\n1,Acme Corp,https://acme.example/terms\n2,Globex,https://globex.example/tos\n")

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", ds.Len())
	}
	first := ds.All()[0]
	if first.ID != 1 || first.Name != "Acme Corp" || first.TermsURL != "https://acme.example/terms" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
}

func TestLoadSkipsIncompleteRows(t *testing.T) {
	path := writeDataset(t, "Sl No,Company Name,Terms & Conditions\n1,Acme Corp,https://acme.example/terms\n2,,https://empty.example\n3,NoURL,\n")

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", ds.Len())
	}
}

func TestLoadMissingColumns(t *testing.T) {
	path := writeDataset(t, "id,name\n1,Acme\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestLookupCaseInsensitiveExact(t *testing.T) {
	ds := NewDataset([]Company{
		{ID: 1, Name: "ACME", TermsURL: "https://acme.example/terms"},
		{ID: 2, Name: "Globex", TermsURL: "https://globex.example/tos"},
	})

	for _, name := range []string{"ACME", "acme", "Acme"} {
		c, err := ds.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if c.ID != 1 {
			t.Fatalf("Lookup(%q): expected id 1, got %d", name, c.ID)
		}
	}
}

func TestLookupSubstringFallback(t *testing.T) {
	ds := NewDataset([]Company{
		{ID: 1, Name: "Globex", TermsURL: "https://globex.example/tos"},
		{ID: 2, Name: "Acme Corp", TermsURL: "https://acme.example/terms"},
		{ID: 3, Name: "Acme Industries", TermsURL: "https://acme-ind.example/terms"},
	})

	c, err := ds.Lookup("acme")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if c.ID != 2 {
		t.Fatalf("expected first substring match (id 2), got %d", c.ID)
	}
}

func TestLookupExactWinsOverSubstring(t *testing.T) {
	ds := NewDataset([]Company{
		{ID: 1, Name: "Acme Corp", TermsURL: "https://acme.example/terms"},
		{ID: 2, Name: "Acme", TermsURL: "https://acme-plain.example/terms"},
	})

	c, err := ds.Lookup("acme")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if c.ID != 2 {
		t.Fatalf("expected exact match (id 2), got %d", c.ID)
	}
}

func TestLookupNotFound(t *testing.T) {
	ds := NewDataset([]Company{{ID: 1, Name: "Acme", TermsURL: "https://acme.example"}})
	if _, err := ds.Lookup("initech"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
