package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/cefr/internal/adapters/socket"
)

var (
	lookupPOS   string
	lookupJSON  bool
	lookupLocal bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <word>",
	Short: "Show the lexicon entries and level of a word",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().StringVarP(&lookupPOS, "pos", "p", "", "Prefer entries for this tag (NN, VB, JJ, RB, ...)")
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "Output as JSON")
	lookupCmd.Flags().BoolVar(&lookupLocal, "local", false, "Look up in-process even if a daemon is running")
}

func runLookup(cmd *cobra.Command, args []string) error {
	client, _, err := daemonClient()
	if err != nil {
		return err
	}

	var result *socket.LookupResult
	if !lookupLocal && client.Ping() {
		result, err = client.Lookup(args[0], lookupPOS)
	} else {
		a, aerr := newApp()
		if aerr != nil {
			return aerr
		}
		var res socket.LookupResult
		res, err = a.Lookup(socket.LookupParams{Word: args[0], Hint: lookupPOS})
		result = &res
	}
	if err != nil {
		return err
	}

	if lookupJSON {
		return writeJSON(os.Stdout, result)
	}
	fmt.Print(formatLookup(result))
	return nil
}
