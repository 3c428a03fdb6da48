// cmd/tools/schema-snapshot/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"dn-client/internal/apiclient"
	"dn-client/internal/common/config"
	"dn-client/internal/common/logger"
	"dn-client/internal/schema"
	"dn-client/pkg/registry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	if len(args) < 1 {
		help(out)
		return 1
	}

	var err error
	switch args[0] {
	case "pull":
		err = pull(args[1:], out)
	case "validate":
		err = validate(args[1:], out)
	case "help":
		help(out)
	default:
		help(out)
		return 1
	}
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return 1
	}
	return 0
}

// pull fetches the live catalogue and writes it as a schema file.
func pull(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("pull", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("path", "configs/schemas.json", "Path to write the schema file to")
	baseURL := fs.String("base-url", "", "Service base URL (defaults to the configured api.base_url)")
	version := fs.String("version", "1", "Version recorded in the file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	reg := schema.NewRegistry(apiclient.New(cfg.API, log, nil), nil, 0, log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.GetTimeout()+5*time.Second)
	defer cancel()

	types, err := reg.ListSchemas(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch schemas: %w", err)
	}

	file := &registry.SchemaFile{
		Version:     *version,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Types:       types,
	}
	data, err := json.Marshal(file)
	if err != nil {
		return err
	}
	if _, err := registry.Parse(data); err != nil {
		return fmt.Errorf("server catalogue is not usable offline: %w", err)
	}
	if err := registry.Save(file, *path); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %d notification types to %s\n", len(types), *path)
	return nil
}

func validate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("path", "configs/schemas.json", "Path to the schema file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("schema file validation failed: %w", err)
	}
	if len(reg.Types) == 0 {
		return fmt.Errorf("schema file contains no notification types")
	}

	fmt.Fprintf(out, "Schema file validation passed. Found %d notification types.\n", len(reg.Types))
	return nil
}

func help(out io.Writer) {
	fmt.Fprint(out, `
Usage: schema-snapshot <command> [flags]

Commands:
  pull      Fetch the notification type catalogue and save it to a file
  validate  Validate a saved schema file
  help      Show this help message

Examples:
  schema-snapshot pull -path configs/schemas.json -base-url http://127.0.0.1:8000
  schema-snapshot validate -path configs/schemas.json

The saved file can be used offline with: dnctl --schemas configs/schemas.json types
`)
}
