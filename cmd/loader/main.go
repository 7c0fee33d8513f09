package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/reelrank/backend/internal/catalog"
	"github.com/reelrank/backend/internal/database"
)

var dataDir string

var rootCmd = &cobra.Command{
	Use:   "loader",
	Short: "Reelrank loader - Bulk-import MovieLens data into the catalog",
	Long: `Reelrank loader imports a MovieLens dataset dump (movies.csv,
links.csv, ratings.csv, tags.csv) into the catalog database and rebuilds
the movie feature table the recommender reads from.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found, using system environment variables")
		}
		if err := database.Initialize(); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Create or migrate the catalog tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Migrate()
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import MovieLens CSV files from --data-dir",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(); err != nil {
			return err
		}
		imp := newImporter(database.DB, dataDir)
		return imp.Run(cmd.Context())
	},
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Rebuild the movie feature table from raw ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := catalog.NewStore(database.DB)
		if err := store.RefreshMovieFeatures(cmd.Context()); err != nil {
			return err
		}
		log.Println("✅ Movie features refreshed")
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&dataDir, "data-dir", "data", "Directory containing the MovieLens CSV files")

	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(featuresCmd)
}

func main() {
	defer database.Close()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
