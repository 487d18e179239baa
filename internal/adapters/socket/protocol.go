// Package socket implements a JSON-over-Unix-socket protocol for the cefr daemon.
// The protocol uses newline-delimited JSON: each message is one JSON object + \n.
package socket

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/corey/cefr/internal/domain/analyzer"
	"github.com/corey/cefr/internal/ports"
)

// SocketPath returns the Unix socket path for a daemon keyed by key (the
// config file path, or "" for defaults).
// Format: {tmp}/cefr-{first12hex}.sock
func SocketPath(key string) string {
	if key != "" {
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
	}
	h := sha256.Sum256([]byte(key))
	return filepath.Join(os.TempDir(), fmt.Sprintf("cefr-%x.sock", h[:6]))
}

// Method names for the protocol.
const (
	MethodAnalyze  = "analyze"
	MethodLookup   = "lookup"
	MethodHealth   = "health"
	MethodReload   = "reload"
	MethodShutdown = "shutdown"
)

// maxMessage bounds one request or response line.
const maxMessage = 8 * 1024 * 1024

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// AnalyzeParams is the params for an analyze request.
type AnalyzeParams struct {
	Text string `json:"text"`
	HTML bool   `json:"html,omitempty"`
}

// AnalyzeResult is the result of an analyze request.
type AnalyzeResult struct {
	analyzer.Result
	Lexicon string `json:"lexicon"`
	Elapsed string `json:"elapsed"`
}

// LookupParams is the params for a lookup request.
type LookupParams struct {
	Word string `json:"word"`
	Hint string `json:"hint,omitempty"`
}

// LookupResult is the result of a lookup request.
type LookupResult struct {
	Word    string        `json:"word"`
	Found   bool          `json:"found"`
	Best    ports.Entry   `json:"best"`
	Entries []ports.Entry `json:"entries"`
	Stemmed string        `json:"stemmed,omitempty"` // set when only the stem resolved
}

// LexiconStats describes the active lexicon.
type LexiconStats struct {
	Name    string `json:"name"`
	Words   int    `json:"words"`
	Entries int    `json:"entries"`
	Phrases int    `json:"phrases"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status  string       `json:"status"`
	Lexicon LexiconStats `json:"lexicon"`
	Uptime  string       `json:"uptime"`
}

// ReloadResult is the result of a reload request.
type ReloadResult struct {
	Lexicon   LexiconStats `json:"lexicon"`
	ElapsedMs int64        `json:"elapsed_ms"`
}
