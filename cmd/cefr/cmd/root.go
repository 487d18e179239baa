package cmd

import (
	"github.com/spf13/cobra"

	"github.com/corey/cefr/internal/adapters/socket"
	"github.com/corey/cefr/internal/app"
	"github.com/corey/cefr/internal/config"
)

var (
	configFlag  string
	noColorFlag bool

	cfg     *config.Config
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "cefr",
	Short: "cefr — CEFR level estimator for English text",
	Long: "Estimates the CEFR proficiency level (A1..C2) of English text from vocabulary,\n" +
		"syntactic complexity and discourse signals.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// loadConfig resolves configuration and the logger before any subcommand runs.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	cfg = c
	cfgPath, _ = config.Resolve(configFlag)
	app.NewLogger(cfg.Log)
	useColor = !noColorFlag && isStdoutTTY()
	return nil
}

// newApp wires an App from the loaded configuration.
func newApp() (*app.App, error) {
	return app.New(cfg, app.Options{ConfigPath: cfgPath})
}

// daemonClient returns a client for the daemon this configuration would run.
func daemonClient() (*socket.Client, *app.Paths, error) {
	paths, err := app.NewPaths(cfg, cfgPath)
	if err != nil {
		return nil, nil, err
	}
	return socket.NewClient(paths.Socket), paths, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file (default ./cefr.yaml or $CEFR_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(lexiconCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
}
