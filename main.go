// Command chromattis serves the Chromattis tile puzzle.
//
// It supports four commands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, websocket
//     updates, and an /mcp endpoint bound to an agent session
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if no
//     external one is reachable
//  3. "analyze" prints per-level solvability figures for every pack
//  4. "validate" checks every pack file and exits non-zero on errors
//
// Flags control host/port, pack and session directories, debug logging,
// topology redaction for agents, and optional ngrok tunneling.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/chromattis/api"
	"github.com/wricardo/mcp-training/chromattis/game/config"
	"github.com/wricardo/mcp-training/chromattis/game/service"
	"github.com/wricardo/mcp-training/chromattis/game/session"
	"github.com/wricardo/mcp-training/chromattis/transport/mcp"
	"github.com/wricardo/mcp-training/chromattis/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Chromattis Puzzle Server"
)

const (
	sessionRetention = 24 * time.Hour
	cleanupInterval  = time.Hour
	syncInterval     = 5 * time.Second
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Root flags are inherited by every
// subcommand.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "chromattis",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("CHROMATTIS_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("CHROMATTIS_PORT"),
			},
			&cli.StringFlag{
				Name:    "levels-dir",
				Value:   "levels",
				Usage:   "Directory containing level pack files",
				Sources: cli.EnvVars("LEVELS_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   session.DefaultSessionsDir(),
				Usage:   "Directory where sessions are persisted",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.StringFlag{
				Name:  "pack",
				Usage: "Level pack for the agent session (default pack when empty)",
			},
			&cli.IntFlag{
				Name:  "level",
				Usage: "Level index for the agent session",
			},
			&cli.BoolFlag{
				Name:  "redact-topology",
				Usage: "Hide tile target lists from the agent",
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "External API used by the mcp command (defaults to http://<host>:<port>)",
			},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server",
				Action:  runStdioMCP,
			},
			{
				Name:   "analyze",
				Usage:  "Print solvability figures for every level pack",
				Action: runAnalyze,
			},
			{
				Name:   "validate",
				Usage:  "Validate the level pack files",
				Action: runValidate,
			},
		},
	}
}

func setupLogging(cmd *cli.Command) {
	slog.SetDefault(newLogger(logOutput, cmd.Bool("debug")))
}

// services bundles the managers behind the game service
type services struct {
	game     service.GameService
	sessions *session.Manager
	packs    *config.Manager
}

// initializeServices wires the pack manager, session persistence, and the
// game service, then loads persisted sessions
func initializeServices(levelsDir, sessionsDir string) (*services, error) {
	packManager, err := config.NewManager(levelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create pack manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(sessionsDir, packManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		slog.Warn("failed to load persisted sessions", "err", err)
	}

	return &services{
		game:     service.NewGameService(sessionManager, packManager),
		sessions: sessionManager,
		packs:    packManager,
	}, nil
}

// runServe starts the HTTP server with REST API, websocket hub, and an /mcp
// endpoint bound to a fresh agent session
func runServe(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)
	slog.Info("starting", "app", AppName, "version", Version, "mode", "serve")

	svc, err := initializeServices(cmd.String("levels-dir"), cmd.String("sessions-dir"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sessionCleanupRoutine(ctx, svc.sessions, cleanupInterval, sessionRetention)
	}()
	go func() {
		defer wg.Done()
		storageSyncRoutine(ctx, svc.sessions, syncInterval)
	}()

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))

	agentSession, err := svc.game.CreateSession(ctx, cmd.String("pack"), cmd.Int("level"))
	if err != nil {
		return fmt.Errorf("failed to create agent session: %w", err)
	}
	mcpClient := mcp.NewClient("http://"+addr,
		mcp.WithSession(agentSession.ID),
		mcp.WithRedaction(cmd.Bool("redact-topology")))

	mainRouter := newRouter(api.NewServer(svc.game, hub), mcpClient.GetMCPServer())

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		slog.Info("endpoints",
			"api", fmt.Sprintf("http://%s/api", addr),
			"ws", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp", fmt.Sprintf("http://%s/mcp", addr),
			"agent_session", agentSession.ID)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		cancel()
		wg.Wait()
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", "err", err)
	}

	wg.Wait()

	if err := svc.sessions.SaveAllSessions(); err != nil {
		slog.Warn("failed to save sessions on shutdown", "err", err)
	}
	slog.Info("server stopped")
	return nil
}

// newRouter mounts the API at the root and the MCP server at /mcp
func newRouter(apiServer http.Handler, mcpServer *server.MCPServer) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpServer))
	return mainRouter
}

// mcpHandler serves single JSON-RPC messages over HTTP POST
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			// Notifications have no reply.
			w.WriteHeader(http.StatusAccepted)
			return
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	}
}

// runNgrok exposes handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		slog.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	slog.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		slog.Info("using custom ngrok domain", "domain", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		slog.Error("failed to start ngrok tunnel", "err", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			slog.Warn("failed to close ngrok tunnel", "err", err)
		}
	}()

	ngrokURL := tun.URL()
	slog.Info("ngrok tunnel established",
		"url", ngrokURL,
		"api", ngrokURL+"/api",
		"ws", ngrokURL+"/ws?session=<session_id>",
		"mcp", ngrokURL+"/mcp")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		slog.Warn("ngrok server error", "err", err)
	}
	slog.Info("ngrok tunnel closed")
}

// sessionCleanupRoutine periodically evicts sessions that have not been
// accessed within maxAge. Their files are kept.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				slog.Info("cleaned up expired sessions", "count", removed)
			}
		}
	}
}

// storageSyncRoutine periodically drops in-memory sessions whose files were
// deleted
func storageSyncRoutine(ctx context.Context, manager *session.Manager, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := manager.SyncWithStorage(); pruned > 0 {
				slog.Info("storage sync pruned orphaned sessions", "count", pruned)
			}
		}
	}
}

// apiReachable reports whether a Chromattis API answers at baseURL
func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalServer serves the API on a random loopback port and returns
// its base URL and a shutdown function
func startInternalServer(svc *services) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	httpServer := &http.Server{Handler: api.NewServer(svc.game, hub)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("internal HTTP server error", "err", err)
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(ctx)
		hub.Stop()
		if err := svc.sessions.SaveAllSessions(); err != nil {
			slog.Warn("failed to save sessions on shutdown", "err", err)
		}
	}

	return "http://" + listener.Addr().String(), shutdown, nil
}

// runStdioMCP runs an MCP stdio server. It reuses an external API when one
// answers at --api-url and otherwise starts an internal one on loopback.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	baseURL := cmd.String("api-url")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://%s:%d", cmd.String("host"), cmd.Int("port"))
	}

	slog.Info("checking for external API server", "url", baseURL)
	if apiReachable(ctx, baseURL) {
		slog.Info("external API server found, using it for MCP", "url", baseURL)
	} else {
		slog.Info("no external API server found, starting internal HTTP server")

		svc, err := initializeServices(cmd.String("levels-dir"), cmd.String("sessions-dir"))
		if err != nil {
			return err
		}
		internalURL, shutdown, err := startInternalServer(svc)
		if err != nil {
			return err
		}
		defer shutdown()
		baseURL = internalURL
		slog.Info("internal HTTP server started", "url", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL, mcp.WithRedaction(cmd.Bool("redact-topology")))
	info, err := mcpClient.StartSession(ctx, cmd.String("pack"), cmd.Int("level"))
	if err != nil {
		return err
	}

	slog.Info("MCP stdio server ready", "session", info.ID, "pack", info.PackID, "api", baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
