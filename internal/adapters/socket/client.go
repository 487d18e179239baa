package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/oklog/ulid/v2"
)

// Client connects to the cefr daemon over a Unix socket.
type Client struct {
	sockPath string
	timeout  time.Duration
}

// NewClient creates a client that will connect to the given socket path.
func NewClient(sockPath string) *Client {
	return &Client{sockPath: sockPath, timeout: 30 * time.Second}
}

// wireResponse is Response as seen by the client, with the result left raw.
type wireResponse struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Analyze sends text for analysis.
func (c *Client) Analyze(text string, html bool) (*AnalyzeResult, error) {
	var result AnalyzeResult
	if err := c.call(MethodAnalyze, AnalyzeParams{Text: text, HTML: html}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Lookup resolves one word against the daemon's lexicon.
func (c *Client) Lookup(word, hint string) (*LookupResult, error) {
	var result LookupResult
	if err := c.call(MethodLookup, LookupParams{Word: word, Hint: hint}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health sends a health check request.
func (c *Client) Health() (*HealthResult, error) {
	var result HealthResult
	if err := c.call(MethodHealth, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reload asks the daemon to rebuild its lexicon from the configured source.
func (c *Client) Reload() (*ReloadResult, error) {
	var result ReloadResult
	if err := c.call(MethodReload, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Shutdown sends a shutdown request to the daemon.
func (c *Client) Shutdown() error {
	return c.call(MethodShutdown, nil, nil)
}

// Ping checks if the daemon is reachable.
func (c *Client) Ping() bool {
	conn, err := net.DialTimeout("unix", c.sockPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (c *Client) call(method string, params, out interface{}) error {
	req := Request{ID: ulid.Make().String(), Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("marshal params: %w", err)
		}
		req.Params = raw
	}

	conn, err := net.DialTimeout("unix", c.sockPath, 2*time.Second)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Set deadline for the whole request/response
	conn.SetDeadline(time.Now().Add(c.timeout))

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxMessage)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		return fmt.Errorf("empty response")
	}

	var resp wireResponse
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("server error: %s", resp.Error)
	}
	if resp.ID != req.ID {
		return fmt.Errorf("response id %q does not match request %q", resp.ID, req.ID)
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}
