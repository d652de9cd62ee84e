package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteDocumentStreamsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.geojson")
	want := `{"type":"FeatureCollection","features":[]}`

	err := writeDocument(path, func(w io.Writer) error {
		_, err := io.WriteString(w, want)
		return err
	})
	if err != nil {
		t.Fatalf("writeDocument: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
}

func TestDocumentBytesReadsBackWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.czml")
	if err := os.WriteFile(path, []byte("from-file"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := documentBytes(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "re-rendered")
		return err
	})
	if err != nil {
		t.Fatalf("documentBytes: %v", err)
	}
	if string(got) != "from-file" {
		t.Errorf("document = %q, want the written file, not a re-rendering", got)
	}
}

func TestDocumentBytesRendersWithoutOutputPath(t *testing.T) {
	got, err := documentBytes("", func(w io.Writer) error {
		_, err := io.WriteString(w, "rendered")
		return err
	})
	if err != nil {
		t.Fatalf("documentBytes: %v", err)
	}
	if string(got) != "rendered" {
		t.Errorf("document = %q, want %q", got, "rendered")
	}
}
