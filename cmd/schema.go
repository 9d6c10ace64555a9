package cmd

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/kasuboski/snatcher/pkg/storage/sqlite"
	"github.com/spf13/cobra"

	jet "github.com/go-jet/jet/v2/generator/sqlite"
)

var outputDirectory string

// schemaCmd regenerates the jet models and tables from the embedded migrations
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "generate database code",
	Long:  `migrate a scratch database and generate jet code from it`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, err := os.MkdirTemp("", "snatcher-schema")
		if err != nil {
			log.Fatal(err)
		}
		defer os.RemoveAll(dir)

		dbPath := filepath.Join(dir, "schema.sqlite")
		ctx := context.Background()

		tmpStorage, err := sqlite.New(ctx, dbPath)
		if err != nil {
			log.Fatal(err)
		}

		err = tmpStorage.RunMigrations(ctx)
		tmpStorage.Close()
		if err != nil {
			log.Fatal(err)
		}

		err = jet.GenerateDSN(dbPath, outputDirectory)
		if err != nil {
			log.Fatal(err)
		}

		log.Printf("successfully generated to %s", outputDirectory)
	},
}

func init() {
	generateCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVarP(&outputDirectory, "out", "o", "./pkg/storage/sqlite/schema/gen", "directory to output generated code to")
}
