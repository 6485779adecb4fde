package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-courseware/cmd/course/internal/bootstrap"
	coursescmd "github.com/goliatone/go-courseware/internal/commands/courses"
	"github.com/goliatone/go-courseware/internal/markdown"
)

var (
	moduleBuilder           = bootstrap.BuildModule
	stdout        io.Writer = os.Stdout
)

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("course import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("course-import", flag.ExitOnError)
	configPath := fs.String("config", "", "Configuration file (YAML, JSON or TOML)")
	sourceDir := fs.String("source-dir", "", "Directory holding the course sources (defaults to config ingest.source_dir)")
	files := fs.String("file", "", "Comma separated source files to import, relative to the source directory")
	directory := fs.String("directory", ".", "Directory to import when -file is empty, relative to the source directory")
	recursive := fs.Bool("recursive", false, "Descend into subdirectories")
	labels := fs.String("labels", "", "Lesson title preset: it or en")
	overwrite := fs.Bool("overwrite", false, "Replace courses whose code already exists")
	skipUnchanged := fs.Bool("skip-unchanged", false, "Leave courses alone when their source checksum did not change")
	dryRun := fs.Bool("dry-run", false, "Parse and classify without storing")
	dsn := fs.String("dsn", "", "Database DSN; selects bun storage when set")
	driver := fs.String("driver", "", "Database driver: sqlite3 or postgres")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath: *configPath,
		SourceDir:  *sourceDir,
		Labels:     *labels,
		Recursive:  *recursive,
		DSN:        *dsn,
		Driver:     *driver,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()
	if module.Import == nil {
		return fmt.Errorf("import handler not configured")
	}

	var report *markdown.ImportResult
	cmd := coursescmd.ImportCoursesCommand{
		Directory:     *directory,
		Files:         bootstrap.SplitFiles(*files),
		Overwrite:     *overwrite,
		SkipUnchanged: *skipUnchanged,
		DryRun:        *dryRun,
		Report:        func(r *markdown.ImportResult) { report = r },
	}
	err = module.Import.Execute(context.Background(), cmd)
	if report != nil {
		printReport(report)
	}
	if err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	return nil
}

func printReport(r *markdown.ImportResult) {
	fmt.Fprintf(stdout, "created: %d, updated: %d, skipped: %d, conflicts: %d\n",
		len(r.Created), len(r.Updated), len(r.Skipped), len(r.Conflicts))
	for _, conflict := range r.Conflicts {
		fmt.Fprintf(stdout, "conflict: %s already stored as %s (%s); rerun with -overwrite\n",
			conflict.Code, conflict.CourseID, conflict.FilePath)
	}
}
