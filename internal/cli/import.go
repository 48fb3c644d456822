package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avolkov/six-cities/internal/db"
	"github.com/avolkov/six-cities/internal/mockdata"
	"github.com/avolkov/six-cities/internal/offer"
)

func newImportCmd() *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "import <file.tsv>",
		Short: "Import offers from a TSV fixture file",
		Long:  "Parse a tab-separated fixture file. With --author, insert the offers into the database owned by that user; without it, print the parsed offers.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], author)
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "user id to own the imported offers")

	return cmd
}

func runImport(path, author string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := mockdata.ReadTSV(f)
	if err != nil {
		return err
	}

	if author == "" {
		printRecords(records)
		return nil
	}

	authorID, err := primitive.ObjectIDFromHex(author)
	if err != nil {
		return fmt.Errorf("malformed author id %q", author)
	}

	ctx := context.Background()
	_, database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, database)

	offers := offer.NewRepository(database.Collection(db.OffersCollection))
	n, err := mockdata.NewImporter(offers).Import(ctx, records, authorID)
	if err != nil {
		return fmt.Errorf("imported %d of %d offers: %w", n, len(records), err)
	}

	fmt.Printf("Imported %d offers\n", n)
	return nil
}

func printRecords(records []mockdata.Record) {
	for _, r := range records {
		fmt.Printf("%s\t%s\t%s\t%d\n", r.Title, r.City, r.Type, r.Price)
	}
	fmt.Printf("%d offers\n", len(records))
}
