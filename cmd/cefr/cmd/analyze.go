package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/cefr/internal/adapters/socket"
)

var (
	analyzeHTML   bool
	analyzeJSON   bool
	analyzeTokens bool
	analyzeLocal  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Estimate the CEFR level of a text",
	Long: "Reads text from a file (or stdin when no file or \"-\" is given) and reports its\n" +
		"CEFR level. Uses the daemon when it is running, otherwise analyzes in-process.\n" +
		"Files ending in .html, .htm or .xhtml are treated as HTML.",
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeHTML, "html", false, "Input is HTML; analyze its visible text")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	analyzeCmd.Flags().BoolVarP(&analyzeTokens, "tokens", "t", false, "List every token with its lemma, tag and level")
	analyzeCmd.Flags().BoolVar(&analyzeLocal, "local", false, "Analyze in-process even if a daemon is running")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, isHTML, err := readInput(args)
	if err != nil {
		return err
	}
	params := socket.AnalyzeParams{Text: text, HTML: analyzeHTML || isHTML}

	var result *socket.AnalyzeResult
	client, _, err := daemonClient()
	if err != nil {
		return err
	}
	if !analyzeLocal && client.Ping() {
		result, err = client.Analyze(params.Text, params.HTML)
	} else {
		result, err = analyzeLocally(params)
	}
	if err != nil {
		return err
	}

	if analyzeJSON {
		return writeJSON(os.Stdout, result)
	}
	fmt.Print(formatAnalysis(result, analyzeTokens))
	return nil
}

func analyzeLocally(params socket.AnalyzeParams) (*socket.AnalyzeResult, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	res, err := a.Analyze(params)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// readInput returns the text named by args, and whether the file extension
// marks it as HTML.
func readInput(args []string) (string, bool, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", false, err
		}
		switch strings.ToLower(filepath.Ext(args[0])) {
		case ".html", ".htm", ".xhtml":
			return string(data), true, nil
		}
		return string(data), false, nil
	}
	if len(args) == 0 && !isStdinPipe() {
		return "", false, fmt.Errorf("no input: pass a file or pipe text on stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", false, fmt.Errorf("read stdin: %w", err)
	}
	return string(data), false, nil
}
