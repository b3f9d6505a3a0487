package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/shelfarr/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <book-id>",
	Short: "Search indexers for a book",
	Long: `Search indexers for a book in the library.

Queries every eligible indexer, evaluates the releases against the
author's quality profile, and prints the candidates best-first.

Examples:
  shelfarr search 42
  shelfarr search 42 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var bookID int64
	if _, err := fmt.Sscanf(args[0], "%d", &bookID); err != nil {
		return fmt.Errorf("invalid book id: %s", args[0])
	}

	book, err := a.store.GetBook(bookID)
	if err != nil {
		return fmt.Errorf("book %d: %w", bookID, err)
	}
	author, err := a.store.GetAuthor(book.AuthorID)
	if err != nil {
		return fmt.Errorf("author %d: %w", book.AuthorID, err)
	}

	var editionTitles []string
	editions, err := a.store.ListEditionsByBook(book.ID)
	if err == nil {
		for _, e := range editions {
			if e.Title != "" && e.Title != book.Title {
				editionTitles = append(editionTitles, e.Title)
			}
		}
	}

	criteria := search.Criteria{
		Author:        author,
		Book:          book,
		EditionTitles: editionTitles,
		Interactive:   true,
	}

	decisions, err := a.dispatcher.SearchBook(cmd.Context(), criteria)
	if err != nil {
		return err
	}
	if len(decisions) == 0 {
		fmt.Println("No releases found.")
		return nil
	}

	if jsonOutput {
		type row struct {
			Title    string   `json:"title"`
			Indexer  string   `json:"indexer"`
			Size     int64    `json:"size"`
			Approved bool     `json:"approved"`
			Reasons  []string `json:"reasons,omitempty"`
		}
		rows := make([]row, len(decisions))
		for i, d := range decisions {
			rows[i] = row{
				Title:    d.Item.Title,
				Indexer:  d.Item.Indexer,
				Size:     d.Item.Size,
				Approved: d.Approved(),
				Reasons:  d.Reasons(),
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	for _, d := range decisions {
		mark := "  "
		if d.Approved() {
			mark = "* "
		}
		fmt.Printf("%s%-60s %-12s %8.1f MB", mark, d.Item.Title, d.Item.Indexer, float64(d.Item.Size)/(1024*1024))
		if !d.Approved() {
			fmt.Printf("  [%s]", strings.Join(d.Reasons(), "; "))
		}
		fmt.Println()
	}
	return nil
}
