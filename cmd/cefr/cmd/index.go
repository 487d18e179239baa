package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/cefr/internal/adapters/fstindex"
)

var (
	indexFST    string
	indexData   string
	indexNoGzip bool
	indexJSON   bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build and query the compact FST dictionary",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build <dump.jsonl>",
	Short: "Build an FST index and data file from a JSONL dictionary dump",
	Long: "Each input line is a JSON object with word, phonetic, definition, translation,\n" +
		"tag and exchange fields. Keys are lowercased; the first record of a duplicated\n" +
		"key wins. Use \"-\" to read stdin.",
	Args: cobra.ExactArgs(1),
	RunE: runIndexBuild,
}

var indexLookupCmd = &cobra.Command{
	Use:   "lookup <word>",
	Short: "Look up a word in the compact dictionary",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexLookup,
}

func init() {
	indexCmd.PersistentFlags().StringVar(&indexFST, "fst", "", "FST index file (default index.fst_path)")
	indexCmd.PersistentFlags().StringVar(&indexData, "data", "", "Data file (default index.data_path)")
	indexBuildCmd.Flags().BoolVar(&indexNoGzip, "no-gzip", false, "Write the data file uncompressed")
	indexLookupCmd.Flags().BoolVar(&indexJSON, "json", false, "Output as JSON")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexLookupCmd)
}

// indexPaths applies config defaults to the --fst/--data flags.
func indexPaths() (string, string, error) {
	fstPath, dataPath := indexFST, indexData
	if fstPath == "" {
		fstPath = cfg.Index.FSTPath
	}
	if dataPath == "" {
		dataPath = cfg.Index.DataPath
	}
	if fstPath == "" || dataPath == "" {
		return "", "", fmt.Errorf("index files required: pass --fst and --data or set index.fst_path and index.data_path")
	}
	return fstPath, dataPath, nil
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	fstPath, dataPath, err := indexPaths()
	if err != nil {
		return err
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
	entries, err := fstindex.ReadJSONL(in)
	if err != nil {
		return err
	}

	fstFile, err := os.Create(fstPath)
	if err != nil {
		return err
	}
	defer fstFile.Close()
	dataFile, err := os.Create(dataPath)
	if err != nil {
		return err
	}
	defer dataFile.Close()

	stats, err := fstindex.Build(entries, fstFile, dataFile, fstindex.BuildOptions{Gzip: !indexNoGzip})
	if err != nil {
		return err
	}
	if err := fstFile.Close(); err != nil {
		return fmt.Errorf("write %s: %w", fstPath, err)
	}
	if err := dataFile.Close(); err != nil {
		return fmt.Errorf("write %s: %w", dataPath, err)
	}

	fmt.Print(formatBuildStats(stats, fstPath, dataPath))
	return nil
}

func runIndexLookup(cmd *cobra.Command, args []string) error {
	fstPath, dataPath, err := indexPaths()
	if err != nil {
		return err
	}

	var holder fstindex.Holder
	fstBytes, err := os.ReadFile(fstPath)
	if err != nil {
		return err
	}
	if err := holder.LoadIndex(fstBytes); err != nil {
		return err
	}

	word := strings.ToLower(args[0])
	off, ok := holder.LookupOffset(word)
	if !ok {
		return fmt.Errorf("%s: not in index", args[0])
	}

	f, err := os.Open(dataPath)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := fstindex.ReadData(f)
	if err != nil {
		return err
	}
	rec, err := fstindex.ReadRecord(data, off)
	if err != nil {
		return err
	}

	hit := indexHit{Word: word, Offset: off, Record: rec, Entries: fstindex.Entries(word, rec)}
	if indexJSON {
		return writeJSON(os.Stdout, hit)
	}
	fmt.Print(formatIndexHit(hit))
	return nil
}
