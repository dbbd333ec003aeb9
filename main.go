// Command neutreeko serves the Neutreeko game engine to humans and agents.
//
// Commands:
//   - serve: HTTP server with the REST API, a WebSocket event stream and an
//     /mcp endpoint, optionally exposed through an ngrok tunnel
//   - mcp: MCP stdio server backed by an external or internal HTTP API
//   - play: runs agent episodes locally and prints the boards
//
// Process settings come from the environment (see package settings), an
// optional .env file and an optional YAML settings file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/neutreeko/api"
	"github.com/wricardo/mcp-training/neutreeko/game/config"
	"github.com/wricardo/mcp-training/neutreeko/game/service"
	"github.com/wricardo/mcp-training/neutreeko/game/session"
	"github.com/wricardo/mcp-training/neutreeko/settings"
	"github.com/wricardo/mcp-training/neutreeko/transport/mcp"
	"github.com/wricardo/mcp-training/neutreeko/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Neutreeko Server"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("neutreeko failed")
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	var cfg *settings.Settings

	return &cli.Command{
		Name:    "neutreeko",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Usage:   "YAML settings file (environment variables override it)",
				Sources: cli.EnvVars("NEUTREEKO_SETTINGS"),
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file loaded before settings",
				Value: ".env",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			loadDotEnv(cmd.String("env-file"))

			s, err := settings.Load(cmd.String("settings"))
			if err != nil {
				return ctx, err
			}
			cfg = s
			setupLogging(cfg, os.Stderr)
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP server with REST API, WebSocket and /mcp endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address, overrides ADDR"},
					&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if addr := cmd.String("addr"); addr != "" {
						cfg.Addr = addr
					}
					if cmd.Bool("ngrok") {
						cfg.Ngrok.Enabled = true
					}
					return runServe(ctx, cfg)
				},
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run an MCP stdio server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Usage: "existing REST API to proxy", Value: "http://localhost:8080"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runStdioMCP(ctx, cfg, cmd.String("api-url"))
				},
			},
			playCommand(func() *settings.Settings { return cfg }),
		},
	}
}

// loadDotEnv loads path if it exists
func loadDotEnv(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("file", path).Msg("error loading env file")
		}
		return
	}
	log.Debug().Str("file", path).Msg("loaded environment variables")
}

// setupLogging configures the global zerolog logger. Logs always go to w so
// stdout stays free for the MCP stdio transport.
func setupLogging(cfg *settings.Settings, w io.Writer) {
	zerolog.SetGlobalLevel(cfg.Level())
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

// initializeServices wires session and config managers into the game service
func initializeServices(cfg *settings.Settings) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if cfg.DefaultConfig != "" {
		if err := configManager.SetDefault(cfg.DefaultConfig); err != nil {
			return nil, nil, fmt.Errorf("default config %q: %w", cfg.DefaultConfig, err)
		}
	}

	sessionManager := session.NewManager()
	return service.NewGameService(sessionManager, configManager), sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl. It returns when ctx is cancelled.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration) {
	if interval <= 0 || ttl <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Info().Int("removed", removed).Int("remaining", manager.Count()).Msg("cleaned up expired sessions")
			}
		}
	}
}

// mcpHandler serves MCP JSON-RPC messages over plain HTTP POST
func mcpHandler(client *mcp.Client) http.HandlerFunc {
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

		response := client.GetMCPServer().HandleMessage(r.Context(), body)
		if response == nil {
			// notifications have no response
			w.WriteHeader(http.StatusAccepted)
			return
		}

		data, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

// localURL turns a listen address into a URL the process can call itself on
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// newRootHandler mounts the API server and the /mcp endpoint on one mux
func newRootHandler(gameService service.GameService, hub *websocket.Hub, baseURL string) http.Handler {
	apiServer := api.NewServer(gameService, hub)
	apiServer.Router().Handle("/mcp", mcpHandler(mcp.NewClient(baseURL)))
	return apiServer
}

// runServe starts the HTTP server and, when enabled, an ngrok tunnel. It
// blocks until SIGINT or SIGTERM.
func runServe(ctx context.Context, cfg *settings.Settings) error {
	gameService, sessionManager, err := initializeServices(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	go hub.Run(ctx)
	go sessionCleanupRoutine(ctx, sessionManager, cfg.CleanupInterval, cfg.SessionTTL)

	baseURL := localURL(cfg.Addr)
	handler := newRootHandler(gameService, hub, baseURL)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().
			Str("addr", cfg.Addr).
			Str("api", baseURL+"/api").
			Str("ws", baseURL+"/ws?sessionId=<id>").
			Str("mcp", baseURL+"/mcp").
			Msgf("%s v%s listening", AppName, Version)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cfg.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cfg.Ngrok, handler)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case runErr = <-errCh:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")
	return runErr
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled
func runNgrok(ctx context.Context, cfg settings.Ngrok, handler http.Handler) {
	var tunnel ngrokConfig.Tunnel
	if cfg.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.Domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	url := tun.URL()
	log.Info().
		Str("url", url).
		Str("api", url+"/api").
		Str("mcp", url+"/mcp").
		Msg("ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// apiAvailable reports whether a REST API answers at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP serves MCP over stdio. It proxies to apiURL when a server is
// already running there and otherwise starts an internal API on a random
// loopback port.
func runStdioMCP(ctx context.Context, cfg *settings.Settings, apiURL string) error {
	baseURL := apiURL
	if apiURL == "" || !apiAvailable(apiURL) {
		gameService, sessionManager, err := initializeServices(cfg)
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		hub := websocket.NewHub()
		go hub.Run(ctx)
		go sessionCleanupRoutine(ctx, sessionManager, cfg.CleanupInterval, cfg.SessionTTL)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		log.Info().Str("api", baseURL).Msg("started internal HTTP server for MCP stdio")
	} else {
		log.Info().Str("api", baseURL).Msg("using external API server for MCP stdio")
	}

	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}
