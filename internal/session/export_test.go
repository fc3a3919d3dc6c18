package session

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
)

func TestExportSelectionFormat(t *testing.T) {
	now := time.Date(2024, 11, 3, 23, 30, 0, 0, time.FixedZone("PST", -8*3600))
	ideas := []domain.Idea{
		{ID: "a", Title: "First", Category: "Framework", Description: "Why it works"},
		{ID: "b", Title: "Second"},
		{ID: "c", Title: "Third", Description: "Only a description"},
	}

	exp := ExportSelection(ideas, now)

	if exp.Filename != "content-ideas-2024-11-04.txt" {
		t.Errorf("Filename = %q, want UTC date", exp.Filename)
	}

	want := "1. First\n   Category: Framework\n   Description: Why it works\n\n" +
		"2. Second\n\n" +
		"3. Third\n   Description: Only a description"
	if exp.Content != want {
		t.Errorf("Content =\n%q\nwant\n%q", exp.Content, want)
	}
}

func TestExportSelectionEmpty(t *testing.T) {
	exp := ExportSelection(nil, time.Now())
	if exp.Content != "" {
		t.Errorf("Content = %q, want empty", exp.Content)
	}
	ideas, err := ReadExport(strings.NewReader(exp.Content))
	if err != nil || len(ideas) != 0 {
		t.Errorf("ReadExport(empty) = %v, %v", ideas, err)
	}
}

func TestExportRoundTrip(t *testing.T) {
	ideas := []domain.Idea{
		{Title: "The 3-minute ritual", Category: "Story+Lesson", Description: "Personal and concrete."},
		{Title: "Stop posting daily", Category: "Myth-Busting"},
		{Title: "Behind my calendar", Description: "Line one\nline two"},
		{Title: "No extras"},
	}

	exp := ExportSelection(ideas, time.Now())
	got, err := ReadExport(strings.NewReader(exp.Content))
	if err != nil {
		t.Fatalf("ReadExport() error = %v", err)
	}
	if !reflect.DeepEqual(got, ideas) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, ideas)
	}
}

func TestReadExportRejectsGarbage(t *testing.T) {
	if _, err := ReadExport(strings.NewReader("not an export")); err == nil {
		t.Error("ReadExport() error = nil, want error")
	}
}

func TestReadExportNumberedDescriptionLine(t *testing.T) {
	ideas := []domain.Idea{
		{Title: "Morning routine", Description: "Three steps:\n2. stretch first"},
		{Title: "Second idea", Category: "Framework"},
	}

	got, err := ReadExport(strings.NewReader(ExportSelection(ideas, time.Now()).Content))
	if err != nil {
		t.Fatalf("ReadExport() error = %v", err)
	}
	if !reflect.DeepEqual(got, ideas) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, ideas)
	}
}
