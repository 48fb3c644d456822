package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/avolkov/six-cities/internal/mockdata"
)

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <n> <file.tsv> <url>",
		Short: "Generate random offers into a TSV fixture file",
		Long:  "Fetch a test-data value pool from <url> and write <n> randomly generated offers to <file.tsv>.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("offer count must be a positive integer, got %q", args[0])
			}
			return runGenerate(n, args[1], args[2])
		},
	}
}

func runGenerate(n int, path, url string) error {
	g := mockdata.NewGenerator()
	if err := g.Load(context.Background(), url); err != nil {
		return err
	}

	records, err := g.Generate(n)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := mockdata.WriteTSV(f, records); err != nil {
		return err
	}

	fmt.Printf("Wrote %d offers to %s\n", n, path)
	return nil
}
