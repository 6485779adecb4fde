package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/goliatone/go-courseware/cmd/course/internal/bootstrap"
	coursescmd "github.com/goliatone/go-courseware/internal/commands/courses"
	"github.com/goliatone/go-courseware/internal/generator"
	"github.com/goliatone/go-courseware/internal/markdown"
)

var (
	moduleBuilder           = bootstrap.BuildModule
	stdout        io.Writer = os.Stdout
)

func main() {
	if err := runGenerate(os.Args[1:]); err != nil {
		log.Fatalf("course generate: %v", err)
	}
}

// runGenerate imports -file and writes the handout of the resulting course.
func runGenerate(args []string) error {
	fs := flag.NewFlagSet("course-generate", flag.ExitOnError)
	configPath := fs.String("config", "", "Configuration file (YAML, JSON or TOML)")
	sourceDir := fs.String("source-dir", "", "Directory holding the course sources")
	labels := fs.String("labels", "", "Lesson title preset: it or en")
	filePath := fs.String("file", "", "Course source to import and generate")
	code := fs.String("code", "", "Generate an already stored course instead of importing -file")
	outputDir := fs.String("output-dir", "", "Directory receiving <CODE>/README.md and the lesson files")
	overwrite := fs.Bool("overwrite", true, "Replace a stored course with the same code before generating")
	dsn := fs.String("dsn", "", "Database DSN; selects bun storage when set")
	driver := fs.String("driver", "", "Database driver: sqlite3 or postgres")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *filePath == "" && *code == "" {
		return fmt.Errorf("-file or -code is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath: *configPath,
		SourceDir:  *sourceDir,
		Labels:     *labels,
		OutputDir:  *outputDir,
		DSN:        *dsn,
		Driver:     *driver,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()
	if module.Generate == nil || (*filePath != "" && module.Import == nil) {
		return fmt.Errorf("course handlers not configured")
	}

	ctx := context.Background()
	cmd := coursescmd.GenerateCourseCommand{Code: *code}

	if *filePath != "" {
		var report *markdown.ImportResult
		err := module.Import.Execute(ctx, coursescmd.ImportCoursesCommand{
			Files:     []string{*filePath},
			Overwrite: *overwrite,
			Report:    func(r *markdown.ImportResult) { report = r },
		})
		if err != nil {
			return fmt.Errorf("import %s: %w", *filePath, err)
		}
		switch {
		case report != nil && len(report.Created) > 0:
			cmd.CourseID = report.Created[0]
		case report != nil && len(report.Updated) > 0:
			cmd.CourseID = report.Updated[0]
		default:
			return fmt.Errorf("import %s: no course stored", *filePath)
		}
	}

	var result *generator.Result
	cmd.Report = func(r *generator.Result) { result = r }
	if err := module.Generate.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute generate command: %w", err)
	}
	if result != nil {
		fmt.Fprintf(stdout, "generated %s: %d files written, %d unchanged\n", result.Dir, len(result.Written), len(result.Skipped))
		for _, name := range result.Written {
			fmt.Fprintln(stdout, "  "+filepath.ToSlash(name))
		}
	}
	return nil
}
