package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/corey/cefr/internal/adapters/socket"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock checks the daemon state and returns actionable guidance
// when a bbolt open fails due to lock contention. It distinguishes three
// scenarios: daemon running, stale socket, and unknown lock holder.
func diagnoseDBLock(sockPath string) string {
	client := socket.NewClient(sockPath)

	if client.Ping() {
		return "lexicon store is locked by the running daemon (it is reloading)\n" +
			"  → retry in a moment, or stop it:  cefr daemon stop"
	}

	if _, err := os.Stat(sockPath); err == nil {
		return fmt.Sprintf("lexicon store is locked — daemon socket exists but is not responding\n"+
			"  → a previous daemon may have crashed\n"+
			"  → find the process:  ps aux | grep 'cefr daemon'\n"+
			"  → kill it:           kill <PID>\n"+
			"  → clean up socket:   rm %s", sockPath)
	}

	return "lexicon store is locked by another process\n" +
		"  → find the process:  ps aux | grep 'cefr'\n" +
		"  → kill it:           kill <PID>\n" +
		"  → then retry your command"
}

// storeError replaces a lock timeout with the diagnostic for sockPath.
func storeError(err error, sockPath string) error {
	if isDBLockError(err) {
		return errors.New(diagnoseDBLock(sockPath))
	}
	return err
}
