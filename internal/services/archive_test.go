package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Create(%s): %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Write(%s): %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

func TestOpenMetadataArchive(t *testing.T) {
	data := buildZip(t, map[string]string{
		"scores.csv": "player,score\nalice,10\n",
		"readme.txt": "game metadata",
	})

	a, err := OpenMetadataArchive(data)
	if err != nil {
		t.Fatalf("OpenMetadataArchive: %v", err)
	}
	if len(a.Names()) != 2 {
		t.Fatalf("Names = %v, want 2 entries", a.Names())
	}
	content, err := a.Entry("readme.txt")
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if string(content) != "game metadata" {
		t.Errorf("Entry = %q", content)
	}
	if _, err := a.Entry("missing"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("missing entry err = %v", err)
	}
}

func TestOpenMetadataArchiveRejectsGarbage(t *testing.T) {
	if _, err := OpenMetadataArchive([]byte("not a zip")); err == nil {
		t.Fatal("expected error for invalid archive")
	}
}

func TestEditCSV(t *testing.T) {
	data := buildZip(t, map[string]string{
		"scores.csv": "player,score\nalice,10\nbob,7\n",
	})
	a, err := OpenMetadataArchive(data)
	if err != nil {
		t.Fatalf("OpenMetadataArchive: %v", err)
	}

	err = a.EditCSV("scores.csv", func(records [][]string) ([][]string, error) {
		return append(records, []string{"carol", "12"}), nil
	})
	if err != nil {
		t.Fatalf("EditCSV: %v", err)
	}

	content, _ := a.Entry("scores.csv")
	want := "player,score\nalice,10\nbob,7\ncarol,12\n"
	if string(content) != want {
		t.Errorf("edited CSV = %q, want %q", content, want)
	}

	if err := a.EditCSV("readme.txt", nil); !errors.Is(err, ErrNotCSV) {
		t.Errorf("non-CSV entry err = %v", err)
	}
}

func TestRewriteArchiveEntry(t *testing.T) {
	data := buildZip(t, map[string]string{
		"scores.csv": "player,score\n",
		"readme.txt": "v1",
	})

	out, err := RewriteArchiveEntry(data, "readme.txt", []byte("v2"))
	if err != nil {
		t.Fatalf("RewriteArchiveEntry: %v", err)
	}

	a, err := OpenMetadataArchive(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	content, _ := a.Entry("readme.txt")
	if string(content) != "v2" {
		t.Errorf("rewritten entry = %q, want v2", content)
	}
	untouched, _ := a.Entry("scores.csv")
	if string(untouched) != "player,score\n" {
		t.Errorf("other entry changed: %q", untouched)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	a := NewMetadataArchive()
	a.SetEntry("b.txt", []byte("second"))
	a.SetEntry("a.txt", []byte("first"))

	out, err := a.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	reopened, err := OpenMetadataArchive(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	content, err := reopened.Entry("a.txt")
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if string(content) != "first" {
		t.Errorf("round-tripped entry = %q", content)
	}
}
