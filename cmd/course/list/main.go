package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/goliatone/go-courseware/cmd/course/internal/bootstrap"
)

var (
	moduleBuilder           = bootstrap.BuildModule
	stdout        io.Writer = os.Stdout
)

func main() {
	if err := runList(os.Args[1:]); err != nil {
		log.Fatalf("course list: %v", err)
	}
}

func runList(args []string) error {
	fs := flag.NewFlagSet("course-list", flag.ExitOnError)
	configPath := fs.String("config", "", "Configuration file (YAML, JSON or TOML)")
	sourceDir := fs.String("source-dir", "", "Directory holding the course sources")
	recursive := fs.Bool("recursive", false, "Descend into subdirectories")
	asJSON := fs.Bool("json", false, "Print the listing as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath: *configPath,
		SourceDir:  *sourceDir,
		Recursive:  *recursive,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()
	if module.Documents == nil {
		return fmt.Errorf("course document service not configured")
	}

	sources, err := module.Documents.ListSources(context.Background())
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	if *asJSON {
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(sources)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSIZE\tKB")
	for _, src := range sources {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\n", src.Filename, src.Size, src.SizeKB)
	}
	return tw.Flush()
}
