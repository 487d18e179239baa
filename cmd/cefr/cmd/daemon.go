package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the cefr daemon",
	Long:  "The daemon keeps the lexicon loaded and serves analyze/lookup requests over a Unix socket.",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the daemon in the foreground",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

var daemonReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Rebuild the daemon's lexicon from its configured source",
	RunE:  runDaemonReload,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonReloadCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	client, paths, err := daemonClient()
	if err != nil {
		return err
	}
	if client.Ping() {
		fmt.Println("⚡ daemon already running")
		return nil
	}

	a, err := newApp()
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("⚡ cefr daemon starting at %s\n", paths.Socket)
	if err := a.Run(ctx); err != nil {
		return storeError(err, paths.Socket)
	}
	fmt.Println("⚡ daemon stopped")
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	client, _, err := daemonClient()
	if err != nil {
		return err
	}
	if !client.Ping() {
		fmt.Println("⚡ daemon is not running")
		return nil
	}
	if err := client.Shutdown(); err != nil {
		return err
	}
	fmt.Println("⚡ daemon stopped")
	return nil
}

func runDaemonReload(cmd *cobra.Command, args []string) error {
	client, _, err := daemonClient()
	if err != nil {
		return err
	}
	if !client.Ping() {
		return fmt.Errorf("daemon is not running")
	}
	res, err := client.Reload()
	if err != nil {
		return err
	}
	fmt.Print(formatReload(res))
	return nil
}
