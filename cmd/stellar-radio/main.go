// Package main is the entry point for the Stellar Radio session backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sarpt/goutils/pkg/listflag"

	"github.com/edumarques81/stellar-radio/internal/config"
	"github.com/edumarques81/stellar-radio/internal/domain/device"
	"github.com/edumarques81/stellar-radio/internal/domain/player"
	"github.com/edumarques81/stellar-radio/internal/infra/hass"
	"github.com/edumarques81/stellar-radio/internal/infra/localfiles"
	"github.com/edumarques81/stellar-radio/internal/infra/mpd"
	"github.com/edumarques81/stellar-radio/internal/infra/store"
	"github.com/edumarques81/stellar-radio/internal/transport/rest"
	"github.com/edumarques81/stellar-radio/internal/transport/socketio"
	"github.com/edumarques81/stellar-radio/internal/version"
)

func main() {
	// Command line flags, non-empty values override the config file
	configPath := flag.String("config", "/etc/stellar-radio/config.yaml", "YAML configuration file")
	port := flag.String("port", "", "HTTP server port")
	haURL := flag.String("ha-url", "", "Home Assistant base URL")
	haToken := flag.String("ha-token", "", "Home Assistant long-lived access token")
	entity := flag.String("entity", "", "Media player entity to drive")
	mpdHost := flag.String("mpd-host", "", "MPD host")
	mpdPort := flag.Int("mpd-port", 0, "MPD port")
	mpdPassword := flag.String("mpd-password", "", "MPD password")
	noMPD := flag.Bool("no-mpd", false, "Disable the local MPD player")
	dbURL := flag.String("db", "", "Database URL (sqlite:///path or postgres://...)")
	identityPath := flag.String("identity", "/var/lib/stellar-radio/identity.json", "Instance identity file")
	staticDir := flag.String("static", "", "Directory to serve static files from (optional)")
	issueToken := flag.String("issue-token", "", "Print an API token for the given subject and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	localDirs := listflag.NewStringList([]string{})
	flag.Var(localDirs, "local-dir", "Directory with local audio files, may be repeated")
	flag.Parse()

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
	}
	override(&cfg.Server.Port, *port)
	override(&cfg.Host.URL, *haURL)
	override(&cfg.Host.Token, *haToken)
	override(&cfg.Host.Entity, *entity)
	override(&cfg.MPD.Host, *mpdHost)
	override(&cfg.MPD.Password, *mpdPassword)
	override(&cfg.Storage.URL, *dbURL)
	override(&cfg.Server.StaticDir, *staticDir)
	if *mpdPort > 0 {
		cfg.MPD.Port = *mpdPort
	}
	if *noMPD {
		cfg.MPD.Enabled = false
	}
	if dirs := localDirs.Values(); len(dirs) > 0 {
		cfg.LocalDirs = dirs
	}

	if *issueToken != "" {
		token, err := rest.IssueToken(cfg.Server.JWTSecret, *issueToken, 365*24*time.Hour)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to issue token, is server.jwt_secret set?")
		}
		fmt.Println(token)
		return
	}

	// Print startup banner
	versionInfo := version.GetInfo()
	log.Info().Msg("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Info().Msgf("  %s", versionInfo.String())
	log.Info().Msg("  Radio Playback Session Backend")
	log.Info().Msg("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Info().
		Str("port", cfg.Server.Port).
		Str("host", cfg.Host.URL).
		Str("entity", cfg.Host.Entity).
		Bool("mpd", cfg.MPD.Enabled).
		Strs("local_dirs", cfg.LocalDirs).
		Bool("api_auth", cfg.Server.JWTSecret != "").
		Msg("Configuration")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Preferences and session storage
	driver, dsn := cfg.Storage.Driver, cfg.Storage.DSN
	if cfg.Storage.URL != "" {
		driver, dsn, err = store.ParseURL(cfg.Storage.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid database URL")
		}
	}
	db, err := store.Open(driver, dsn, cfg.Storage.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	// Home Assistant bridge
	wsURL, err := hass.WebsocketURL(cfg.Host.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid Home Assistant URL")
	}
	haClient := hass.NewClient(wsURL, cfg.Host.Token)
	defer haClient.Close()
	if err := haClient.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Home Assistant not reachable yet, will keep retrying")
	}

	// Local fallback player
	var local player.LocalElement
	var mpdPlayer *mpd.Player
	if cfg.MPD.Enabled {
		mpdPlayer = mpd.NewPlayer(cfg.MPD.Host, cfg.MPD.Port, cfg.MPD.Password)
		if err := mpdPlayer.Connect(); err != nil {
			log.Warn().Err(err).Msg("MPD unavailable, local playback disabled")
			mpdPlayer = nil
		} else {
			defer mpdPlayer.Close()
			local = mpdPlayer
		}
	}

	// Session controller
	ctrl := player.NewController(haClient, local, db, cfg.PlayerOptions())
	haClient.OnStateChange(ctrl.HandleEntityState)
	go haClient.Run(ctx)

	devices, err := device.NewService(*identityPath, haClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load instance identity")
	}

	if err := ctrl.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to restore session")
	}
	if ctrl.Device() == "" {
		if id := devices.Resolve(cfg.Host.Entity); id != "" {
			if err := ctrl.SelectDevice(ctx, id); err != nil {
				log.Warn().Err(err).Str("device", id).Msg("Failed to select media player")
			}
		} else {
			log.Warn().Msg("No media players found on Home Assistant")
		}
	}
	go ctrl.Run(ctx)

	if mpdPlayer != nil {
		go watchLocal(ctx, mpdPlayer, ctrl)
	}

	if len(cfg.LocalDirs) > 0 {
		watcher, err := localfiles.NewWatcher(cfg.LocalDirs, ctrl.SetLocalFiles)
		if err != nil {
			log.Error().Err(err).Msg("Failed to watch local music directories")
		} else {
			if err := watcher.Scan(); err != nil {
				log.Warn().Err(err).Msg("Local music scan incomplete")
			}
			go watcher.Run(ctx)
		}
	}

	// Create Socket.io server
	socketServer, err := socketio.NewServer(ctrl, devices, socketio.DefaultMaxExternalClients)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Socket.io server")
	}
	defer socketServer.Close()

	// Setup HTTP server
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", socketServer)
	mux.Handle(rest.Prefix+"/", rest.NewRouter(ctrl, devices, cfg.Server.JWTSecret))
	if cfg.Server.StaticDir != "" {
		log.Info().Str("dir", cfg.Server.StaticDir).Msg("Serving static files")
		mux.Handle("/", spaHandler(cfg.Server.StaticDir))
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsMiddleware("*", mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info().Msg("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("HTTP server error")
	}

	log.Info().Msg("Server stopped")
}

// watchLocal mirrors pauses made on MPD itself into the session.
func watchLocal(ctx context.Context, p *mpd.Player, ctrl *player.Controller) {
	events, err := p.Watch(ctx, "player")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to start MPD watcher")
		return
	}

	log.Info().Msg("MPD watcher started")
	for range events {
		paused, err := p.Paused()
		if err != nil {
			log.Debug().Err(err).Msg("Failed to read MPD state")
			continue
		}
		ctrl.HandleLocalState(paused)
	}
	log.Info().Msg("MPD watcher stopped")
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
