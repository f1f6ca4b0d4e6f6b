// Command to import device record JSON files into the SQLite inventory
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amrshaker000/origin-trace/internal/model"
	"github.com/amrshaker000/origin-trace/internal/store"
)

const version = "1.0.0"

func main() {
	dataDir := flag.String("dir", "./data", "Data directory for the SQLite database")
	file := flag.String("file", "./data/devices.json", "Device records JSON file to import")
	dryRun := flag.Bool("dry-run", false, "Show what would be done without making changes")
	force := flag.Bool("force", false, "Force overwrite existing SQLite database")
	versionFlag := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("migrate version %s\n", version)
		return
	}

	fmt.Printf("=== OriginTrace inventory import v%s ===\n\n", version)

	records, err := readRecords(*file)
	if err != nil {
		fmt.Printf("error: cannot read device records: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("found %d device records in %s\n", len(records), *file)

	dbPath := filepath.Join(*dataDir, "origin-trace.db")
	if _, err := os.Stat(dbPath); err == nil {
		if !*force {
			fmt.Printf("error: SQLite database already exists: %s\n", dbPath)
			fmt.Println("use --force to overwrite it, or delete the file first")
			os.Exit(1)
		}
		backup := dbPath + ".backup_" + time.Now().Format("20060102_150405")
		if err := os.Rename(dbPath, backup); err != nil {
			fmt.Printf("error: cannot back up existing database: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("existing database moved to %s\n", backup)
	}

	if *dryRun {
		fmt.Println("\n=== dry run (no changes written) ===")
		for i, rec := range records {
			fmt.Printf("  %3d  %s %s\n", i+1, rec.Brand, rec.Model)
		}
		return
	}

	inventory, err := store.NewSQLite(*dataDir)
	if err != nil {
		fmt.Printf("error: cannot create SQLite database: %v\n", err)
		os.Exit(1)
	}
	defer inventory.Close()

	imported, err := inventory.ImportRecords(records)
	if err != nil {
		fmt.Printf("error: import failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nimport complete: %d/%d records\n", imported, len(records))
	fmt.Printf("database location: %s\n", dbPath)
	fmt.Println("\nnext step: start the server and check /api/devices")
}

func readRecords(path string) ([]model.RawDeviceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []model.RawDeviceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	return records, nil
}
