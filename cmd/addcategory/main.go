// Command addcategory seeds a category into the database. Categories are
// global and have no web CRUD, so seeding is the only way to create them.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ayohana/to-do-list/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("addcategory", flag.ContinueOnError)
	fs.SetOutput(stderr)

	name := fs.String("name", "", "Category name")
	dbPath := fs.String("db", "todolist.db", "Path to database file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*name) == "" {
		fmt.Fprintln(stdout, "Usage: addcategory -name <name> [-db <db_path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: name")
	}

	// Allow overriding db path via env var if not explicitly set via flag (flag default is used)
	if path := os.Getenv("DB_PATH"); path != "" && *dbPath == "todolist.db" {
		*dbPath = path
	}

	db, err := storage.NewDB(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	category, err := db.CreateCategory(strings.TrimSpace(*name))
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	fmt.Fprintf(stdout, "Category %s created successfully with ID %d\n", category.Name, category.ID)
	return nil
}
