package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-courseware/cmd/course/internal/bootstrap"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

var (
	moduleBuilder           = bootstrap.BuildModule
	stdout        io.Writer = os.Stdout
)

type previewOutput struct {
	File        string                    `json:"file"`
	Checksum    string                    `json:"checksum"`
	Strategy    string                    `json:"strategy"`
	Legacy      bool                      `json:"legacy"`
	Modules     int                       `json:"modules"`
	Metadata    interfaces.CourseMetadata `json:"metadata"`
	FrontMatter map[string]any            `json:"front_matter,omitempty"`
	Lessons     []interfaces.LessonRecord `json:"lessons"`
}

func main() {
	if err := runPreview(os.Args[1:]); err != nil {
		log.Fatalf("course preview: %v", err)
	}
}

func runPreview(args []string) error {
	fs := flag.NewFlagSet("course-preview", flag.ExitOnError)
	configPath := fs.String("config", "", "Configuration file (YAML, JSON or TOML)")
	sourceDir := fs.String("source-dir", "", "Directory holding the course sources")
	labels := fs.String("labels", "", "Lesson title preset: it or en")
	filePath := fs.String("file", "", "Course source to preview, relative to the source directory")
	renderHTML := fs.Bool("html", false, "Print the HTML rendering of each lesson instead of JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *filePath == "" {
		return fmt.Errorf("-file is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath: *configPath,
		SourceDir:  *sourceDir,
		Labels:     *labels,
		RenderHTML: *renderHTML,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()
	if module.Documents == nil {
		return fmt.Errorf("course document service not configured")
	}

	ctx := context.Background()
	doc, err := module.Documents.Load(ctx, *filePath)
	if err != nil {
		return fmt.Errorf("load course source: %w", err)
	}

	if *renderHTML {
		return printHTML(ctx, module.Documents, doc)
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(previewOutput{
		File:        doc.FilePath,
		Checksum:    fmt.Sprintf("%x", doc.Checksum),
		Strategy:    string(doc.Course.Strategy),
		Legacy:      doc.Course.Legacy,
		Modules:     doc.Course.Modules,
		Metadata:    doc.Course.Metadata,
		FrontMatter: doc.FrontMatter,
		Lessons:     doc.Course.Lessons,
	})
}

func printHTML(ctx context.Context, documents interfaces.CourseDocumentService, doc *interfaces.CourseDocument) error {
	for i, lesson := range doc.Course.Lessons {
		var html []byte
		if i < len(doc.LessonsHTML) {
			html = doc.LessonsHTML[i]
		} else {
			rendered, err := documents.Render(ctx, []byte(lesson.Content), interfaces.ParseOptions{})
			if err != nil {
				return fmt.Errorf("render lesson %d: %w", lesson.Order, err)
			}
			html = rendered
		}
		fmt.Fprintf(stdout, "<!-- %02d %s -->\n%s\n", lesson.Order, lesson.Title, html)
	}
	return nil
}
