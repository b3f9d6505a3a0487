package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/shelfarr/internal/search"
)

var indexersCmd = &cobra.Command{
	Use:   "indexers",
	Short: "List configured indexers",
	RunE:  runIndexersCmd,
}

func init() {
	rootCmd.AddCommand(indexersCmd)
	indexersCmd.Flags().Bool("test", false, "Test indexer connectivity")
}

func runIndexersCmd(cmd *cobra.Command, args []string) error {
	testFlag, _ := cmd.Flags().GetBool("test")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(a.indexers) == 0 {
		fmt.Println("No indexers configured")
		return nil
	}

	fmt.Printf("Indexers (%d):\n\n", len(a.indexers))

	if testFlag {
		fmt.Printf("  %-15s %-8s %s\n", "NAME", "STATUS", "LATENCY/ERROR")
		fmt.Println("  " + strings.Repeat("-", 60))
		for _, ix := range a.indexers {
			tester, ok := ix.(search.Tester)
			if !ok {
				fmt.Printf("  %-15s %-8s %s\n", ix.Name(), "skipped", "no connectivity check")
				continue
			}
			start := time.Now()
			if err := tester.Test(cmd.Context()); err != nil {
				fmt.Printf("  %-15s %-8s %s\n", ix.Name(), "error", err)
				continue
			}
			fmt.Printf("  %-15s %-8s %dms\n", ix.Name(), "ok", time.Since(start).Milliseconds())
		}
		return nil
	}

	fmt.Printf("  %-15s %s\n", "NAME", "URL")
	fmt.Println("  " + strings.Repeat("-", 60))
	for _, ix := range a.indexers {
		url := ""
		if nz, ok := ix.(*search.NewznabIndexer); ok {
			url = nz.URL()
		}
		fmt.Printf("  %-15s %s\n", ix.Name(), url)
	}
	return nil
}
