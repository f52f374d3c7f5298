package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/service"
)

const (
	ServerName    = "chromattis"
	ServerVersion = "1.0.0"
)

// Instructions is the system prompt handed to solving agents
const Instructions = `You are playing a puzzle game. You have tools available to inspect and mutate the current state.
Use the tools to figure out how the puzzle works, then solve it. The puzzle is considered solved when all tiles are the same number.

Your goal is to solve it in as few moves as possible.`

// ErrNoSession is returned by tool calls made before a session is bound
var ErrNoSession = errors.New("no session bound; start one first")

// Option configures a Client
type Option func(*Client)

// WithSession binds the client to an existing session
func WithSession(id string) Option {
	return func(c *Client) {
		c.sessionID = id
	}
}

// WithRedaction hides each tile's target list from tool results
func WithRedaction(redact bool) Option {
	return func(c *Client) {
		c.redact = redact
	}
}

// WithHTTPClient replaces the HTTP client used to reach the API
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// Client exposes one puzzle session to an MCP agent by proxying tool calls
// to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
	redact     bool

	mu        sync.RWMutex
	sessionID string
}

// NewClient creates a new MCP client that talks to the API at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(Instructions),
	)

	c.registerTools()
}

func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_state",
		Description: "Return the current game state as JSON.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGetState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tap_tile",
		Description: "Tap a tile on the board.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tile_id": map[string]interface{}{
					"type":        "integer",
					"description": "ID of tile to tap",
				},
			},
			Required: []string{"tile_id"},
		},
	}, c.handleTapTile)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// SessionID returns the bound session id, empty when none is bound
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// StartSession creates a session through the API and binds the client to it
func (c *Client) StartSession(ctx context.Context, packID string, levelIndex int) (*service.SessionInfo, error) {
	body := map[string]interface{}{
		"pack_id":     packID,
		"level_index": levelIndex,
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.mu.Lock()
	c.sessionID = session.ID
	c.mu.Unlock()

	return &session, nil
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func (c *Client) sessionPath(suffix string) (string, error) {
	id := c.SessionID()
	if id == "" {
		return "", ErrNoSession
	}
	return "/api/sessions/" + url.PathEscape(id) + suffix, nil
}

// Tool handlers

func (c *Client) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := c.sessionPath("/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if c.redact {
		path += "?redact=" + strconv.FormatBool(true)
	}

	var state engine.GameState
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.stateResult(state)
}

func (c *Client) handleTapTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	tileID, err := intArg(args, "tile_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err := c.sessionPath("/tap")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.TapResult
	body := map[string]int{"tile_id": tileID}
	if err := c.apiCall(ctx, http.MethodPost, path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if result.GameState == nil {
		return mcp.NewToolResultError("API returned no game state"), nil
	}

	return c.stateResult(*result.GameState)
}

func (c *Client) stateResult(state engine.GameState) (*mcp.CallToolResult, error) {
	if c.redact {
		state = state.Redacted()
	}

	data, err := json.Marshal(state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// intArg reads an integer argument. JSON numbers arrive as float64, so a
// value with a fractional part is rejected.
func intArg(args map[string]interface{}, name string) (int, error) {
	raw, ok := args[name]
	if !ok {
		return 0, fmt.Errorf("%s is required", name)
	}

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%s must be an integer, got %v", name, v)
		}
		return int(v), nil
	case int:
		return v, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer, got %q", name, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", name)
	}
}
