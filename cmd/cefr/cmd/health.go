package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check daemon status",
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "Output as JSON")
}

func runHealth(cmd *cobra.Command, args []string) error {
	client, _, err := daemonClient()
	if err != nil {
		return err
	}
	if !client.Ping() {
		fmt.Println("⚡ cefr daemon is not running")
		return nil
	}

	health, err := client.Health()
	if err != nil {
		return err
	}
	if healthJSON {
		return writeJSON(os.Stdout, health)
	}
	fmt.Print(formatHealth(health))
	return nil
}
