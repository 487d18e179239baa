package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/cefr/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the resolved config file, lexicon source, store and socket paths, and daemon status. No daemon required.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	client, paths, err := daemonClient()
	if err != nil {
		return err
	}

	daemonStatus := fmt.Sprintf("%s✗ not running%s", c(colorYellow), c(colorReset))
	if client.Ping() {
		daemonStatus = fmt.Sprintf("%s✓ running%s", c(colorGreen), c(colorReset))
	}

	file := cfgPath
	if _, err := os.Stat(cfgPath); err != nil {
		file += " (not found, using env + defaults)"
	}

	lc := cfg.Lexicon
	fmt.Printf("%s⚡ cefr config%s\n", c(colorBold), c(colorReset))
	fmt.Printf("  File:       %s\n", file)
	fmt.Printf("  Source:     %s\n", lc.Source)
	switch lc.Source {
	case config.SourceCSV:
		fmt.Printf("  Path:       %s\n", lc.Path)
	case config.SourceSQLite:
		fmt.Printf("  Path:       %s (table %s)\n", lc.Path, lc.Table)
	case config.SourceBolt:
		fmt.Printf("  Name:       %s\n", lc.Name)
	}
	if lc.Watch {
		fmt.Printf("  Watch:      on (debounce %s)\n", lc.Debounce)
	}
	if cfg.Index.FSTPath != "" {
		fmt.Printf("  Index:      %s + %s\n", cfg.Index.FSTPath, cfg.Index.DataPath)
	}
	if cfg.Wordlists.Dir != "" {
		fmt.Printf("  Wordlists:  %s\n", cfg.Wordlists.Dir)
	}
	fmt.Printf("  Store:      %s\n", paths.Store)
	fmt.Printf("  Socket:     %s\n", paths.Socket)
	fmt.Printf("  Daemon:     %s\n", daemonStatus)
	fmt.Printf("  Log:        %s (%s)\n", cfg.Log.Level, cfg.Log.Format)
	return nil
}
