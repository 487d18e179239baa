package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/cefr/internal/app"
	"github.com/corey/cefr/internal/config"
)

var (
	importName   string
	importSQLite string
	importTable  string
	listJSON     bool
)

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Manage stored lexicons",
}

var lexiconImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import lexicon CSV into the store or a SQLite table",
	Long: "Parses lemma,pos,level[,abstract] rows and saves them as a named snapshot in\n" +
		"the lexicon store (--name), or writes them to a SQLite table (--sqlite).\n" +
		"The rows must build into a usable lexicon before anything is written.",
	Args: cobra.ExactArgs(1),
	RunE: runLexiconImport,
}

var lexiconListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored lexicons",
	Args:  cobra.NoArgs,
	RunE:  runLexiconList,
}

var lexiconRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a stored lexicon",
	Args:  cobra.ExactArgs(1),
	RunE:  runLexiconRm,
}

func init() {
	lexiconImportCmd.Flags().StringVarP(&importName, "name", "n", "", "Snapshot name in the lexicon store")
	lexiconImportCmd.Flags().StringVar(&importSQLite, "sqlite", "", "SQLite database to write instead of the store")
	lexiconImportCmd.Flags().StringVar(&importTable, "table", "", "SQLite table (default lexicon.table)")
	lexiconImportCmd.MarkFlagsMutuallyExclusive("name", "sqlite")
	lexiconListCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	lexiconCmd.AddCommand(lexiconImportCmd)
	lexiconCmd.AddCommand(lexiconListCmd)
	lexiconCmd.AddCommand(lexiconRmCmd)
}

func runLexiconImport(cmd *cobra.Command, args []string) error {
	target := app.ImportTarget{Kind: config.SourceBolt, Name: importName}
	if importSQLite != "" {
		table := importTable
		if table == "" {
			table = cfg.Lexicon.Table
		}
		target = app.ImportTarget{Kind: config.SourceSQLite, Path: importSQLite, Table: table}
	} else if importName == "" {
		return fmt.Errorf("pass --name (store) or --sqlite (database)")
	}

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	stats, err := a.Import(context.Background(), in, target)
	if err != nil {
		return storeError(err, a.Paths.Socket)
	}
	fmt.Print(formatImport(stats))
	return nil
}

func runLexiconList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	infos, err := a.ListLexicons()
	if err != nil {
		return storeError(err, a.Paths.Socket)
	}
	if listJSON {
		return writeJSON(os.Stdout, infos)
	}
	fmt.Print(formatLexicons(infos))
	return nil
}

func runLexiconRm(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.DeleteLexicon(args[0]); err != nil {
		return storeError(err, a.Paths.Socket)
	}
	fmt.Printf("⚡ removed %s\n", args[0])
	return nil
}
