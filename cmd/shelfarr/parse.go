package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmunix/shelfarr/pkg/release"
)

var parseCmd = &cobra.Command{
	Use:   "parse <release-name>",
	Short: "Parse a release name (local, no library needed)",
	Long: `Parse a release name into author, title, year and quality.

Examples:
  shelfarr parse "Ursula K. Le Guin - The Dispossessed.1974.Retail.EPUB-GRP"
  shelfarr parse "Frank Herbert - Dune [Unabridged] M4B" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	info := release.Parse(args[0])

	if jsonOutput {
		out := struct {
			Author     string `json:"author,omitempty"`
			Title      string `json:"title"`
			Year       int    `json:"year,omitempty"`
			Quality    string `json:"quality"`
			Group      string `json:"group,omitempty"`
			Retail     bool   `json:"retail,omitempty"`
			Unabridged bool   `json:"unabridged,omitempty"`
			CleanTitle string `json:"clean_title"`
		}{
			Author:     info.Author,
			Title:      info.Title,
			Year:       info.Year,
			Quality:    info.Quality.String(),
			Group:      info.Group,
			Retail:     info.Retail,
			Unabridged: info.Unabridged,
			CleanTitle: info.CleanTitle,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if info.Author != "" {
		fmt.Printf("Author:   %s\n", info.Author)
	}
	fmt.Printf("Title:    %s\n", info.Title)
	if info.Year != 0 {
		fmt.Printf("Year:     %d\n", info.Year)
	}
	fmt.Printf("Quality:  %s\n", info.Quality)
	if info.Group != "" {
		fmt.Printf("Group:    %s\n", info.Group)
	}
	if info.Retail {
		fmt.Println("Retail:   yes")
	}
	if info.Unabridged {
		fmt.Println("Unabridged: yes")
	}
	return nil
}
