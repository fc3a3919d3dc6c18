package session

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
)

const (
	ExportContentType = "text/plain; charset=utf-8"

	categoryPrefix    = "   Category: "
	descriptionPrefix = "   Description: "
)

var exportHeaderRe = regexp.MustCompile(`^(\d+)\. (.*)$`)

// Export is a downloadable plain-text list of ideas.
type Export struct {
	Filename string
	Content  string
}

// ExportFilename returns content-ideas-<YYYY-MM-DD>.txt for the UTC date of now.
func ExportFilename(now time.Time) string {
	return "content-ideas-" + now.UTC().Format("2006-01-02") + ".txt"
}

// ExportSelection renders ideas as numbered blocks separated by a blank line:
//
//	1. <title>
//	   Category: <category>
//	   Description: <description>
//
// Category and description lines are omitted when empty.
func ExportSelection(ideas []domain.Idea, now time.Time) Export {
	blocks := make([]string, 0, len(ideas))
	for i, idea := range ideas {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%d. %s", i+1, idea.Title)
		if idea.Category != "" {
			sb.WriteString("\n" + categoryPrefix + idea.Category)
		}
		if idea.Description != "" {
			sb.WriteString("\n" + descriptionPrefix + idea.Description)
		}
		blocks = append(blocks, sb.String())
	}
	return Export{
		Filename: ExportFilename(now),
		Content:  strings.Join(blocks, "\n\n"),
	}
}

// ReadExport parses an artifact produced by ExportSelection back into ideas.
// Ids are not part of the format and come back empty. A numbered header is
// only recognized at the start or after a blank line, so wrapped descriptions
// may start with "<n>. ", but a description containing a blank line does not
// read back.
func ReadExport(r io.Reader) ([]domain.Idea, error) {
	var (
		ideas []domain.Idea
		cur   *domain.Idea
		// last field that received text, for wrapped descriptions
		tail *string
		// headers only start a block at the top or after a blank line
		atBlock = true
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()

		if atBlock {
			if m := exportHeaderRe.FindStringSubmatch(line); m != nil && m[1] == fmt.Sprint(len(ideas)+1) {
				ideas = append(ideas, domain.Idea{Title: m[2]})
				cur = &ideas[len(ideas)-1]
				tail = &cur.Title
				atBlock = false
				continue
			}
		}
		atBlock = line == ""

		switch {
		case cur == nil:
			if strings.TrimSpace(line) != "" {
				return nil, fmt.Errorf("export line %d: expected numbered title", lineNo)
			}
		case strings.HasPrefix(line, categoryPrefix):
			cur.Category = strings.TrimPrefix(line, categoryPrefix)
			tail = &cur.Category
		case strings.HasPrefix(line, descriptionPrefix):
			cur.Description = strings.TrimPrefix(line, descriptionPrefix)
			tail = &cur.Description
		case line == "":
			tail = nil
		case tail != nil:
			*tail += "\n" + line
		default:
			return nil, fmt.Errorf("export line %d: unexpected text", lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	if ideas == nil {
		ideas = []domain.Idea{}
	}
	return ideas, nil
}
