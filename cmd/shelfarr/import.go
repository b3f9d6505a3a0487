package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/shelfarr/internal/decision"
	"github.com/vmunix/shelfarr/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import books from a folder into the library",
	Long: `Import books from a folder into the library.

Scans the given folder for book and audiobook files, decides which are
importable, and moves the approved ones into place.

Examples:
  shelfarr import /downloads/Author.Name-Book.Title.2023.EPUB-GRP
  shelfarr import --dry-run /downloads/some-release
  shelfarr import --replace /downloads/better-quality-release`,
	Args: cobra.ExactArgs(1),
	RunE: runImportCmd,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().Bool("dry-run", false, "Preview decisions without importing")
	importCmd.Flags().Bool("replace", false, "Replace existing files for matched books")
	importCmd.Flags().Bool("single", false, "Treat the folder as one release")
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	replace, _ := cmd.Flags().GetBool("replace")
	single, _ := cmd.Flags().GetBool("single")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	root := args[0]
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("path: %w", err)
	}

	paths, err := importer.FindBookFiles(root)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("No book files found.")
		return nil
	}

	ctx := cmd.Context()
	decisions, err := a.maker.GetImportDecisions(ctx, paths, importer.BatchInfo{}, importer.Overrides{}, importer.MakerConfig{
		Filter:        importer.FilterAll,
		NewDownload:   true,
		SingleRelease: single,
		AddNewAuthors: a.cfg.Import.AddNewAuthors,
	})
	if err != nil {
		return err
	}

	if dryRun {
		return printDecisions(decisions)
	}

	results := a.approver.Import(ctx, decisions, importMode(a.cfg.Import.Mode), replace, nil)

	imported, skipped, rejected := 0, 0, 0
	for _, r := range results {
		switch r.Result() {
		case importer.ResultImported:
			imported++
		case importer.ResultSkipped:
			skipped++
			fmt.Printf("skipped  %s: %s\n", r.Decision.Item, strings.Join(r.Errors, "; "))
		default:
			rejected++
			fmt.Printf("rejected %s: %s\n", r.Decision.Item, strings.Join(r.Decision.Reasons(), "; "))
		}
	}
	fmt.Printf("%d imported, %d skipped, %d rejected\n", imported, skipped, rejected)
	return nil
}

func printDecisions(decisions []*decision.Decision[*importer.LocalBook]) error {
	if jsonOutput {
		type row struct {
			Path     string   `json:"path"`
			Approved bool     `json:"approved"`
			Reasons  []string `json:"reasons,omitempty"`
		}
		rows := make([]row, len(decisions))
		for i, d := range decisions {
			rows[i] = row{Path: d.Item.Path, Approved: d.Approved(), Reasons: d.Reasons()}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	for _, d := range decisions {
		if d.Approved() {
			fmt.Printf("approve  %s\n", d.Item.Path)
		} else {
			fmt.Printf("reject   %s: %s\n", d.Item.Path, strings.Join(d.Reasons(), "; "))
		}
	}
	return nil
}
