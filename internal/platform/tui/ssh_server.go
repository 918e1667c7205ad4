package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/kana-drop/internal/catalog"
	"github.com/vovakirdan/kana-drop/internal/config"
	"github.com/vovakirdan/kana-drop/internal/games/kanadrop"
	"github.com/vovakirdan/kana-drop/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.kanadrop/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database. Empty disables persistence.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game is the configuration every connection starts from.
	Game config.Config

	// Seed fixes the prompt sequence of every connection. 0 means time based.
	Seed int64

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      filepath.Join(config.DataDir(), "scores.db"),
		IdleTimeout: 30 * time.Minute,
		Game:        config.DefaultConfig(),
	}
}

// SSHServer serves kana drop over SSH. Every connection plays its own
// session; the high score and history are shared.
type SSHServer struct {
	config SSHServerConfig
	cat    *catalog.Catalog
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger

	scoresOnce sync.Once
	scores     kanadrop.HighScoreStore
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "kanadrop-ssh",
		})
	}

	if err := cfg.Game.Validate(); err != nil {
		return nil, err
	}

	srv := &SSHServer{
		config: cfg,
		cat:    catalog.Default(),
		logger: logger,
	}

	if cfg.DBPath != "" {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("could not open scores database", "error", err)
			// Continue without storage
		} else {
			srv.store = store
		}
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		hostKeyPath = filepath.Join(config.DataDir(), "host_key")
	}

	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a game for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model, err := s.newGame(sshSession.Context(), sshSession.User(), pty.Window.Width, pty.Window.Height)
	if err != nil {
		s.logger.Error("cannot start game", "user", sshSession.User(), "error", err)
		return nil, nil
	}

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// highScores is the record every connection reads and raises. Without a
// database it lives in memory for the life of the server.
func (s *SSHServer) highScores() kanadrop.HighScoreStore {
	s.scoresOnce.Do(func() {
		if s.store != nil {
			s.scores = storage.NewHighScoreCell(s.store, storage.DefaultHighScoreKey)
		} else {
			s.scores = kanadrop.NewMemoryStore(0)
		}
	})
	return s.scores
}

// newGame builds a session, its runner and the game screen for one player.
// The runner stops when ctx is done.
func (s *SSHServer) newGame(ctx context.Context, user string, width, height int) (Model, error) {
	logger := s.logger.With("user", user)
	cfg := s.config.Game

	opts := []kanadrop.Option{
		kanadrop.WithRules(cfg.GameRules()),
		kanadrop.WithLogger(logger),
	}
	if s.config.Seed != 0 {
		opts = append(opts, kanadrop.WithSeed(s.config.Seed))
	}
	if s.store != nil {
		opts = append(opts, kanadrop.WithListener(storage.NewRecorder(s.store, logger)))
	}

	session, err := kanadrop.NewSession(s.cat, cfg.GameSettings(), s.highScores(), opts...)
	if err != nil {
		return Model{}, err
	}

	runOpts := cfg.RunnerOptions()
	runOpts.Logger = logger
	runner := kanadrop.NewRunner(session, runOpts)
	go func() {
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("game loop stopped", "error", err)
		}
	}()

	return NewModel(runner, Options{
		Catalog:       s.cat,
		Settings:      cfg.GameSettings(),
		AllowSettings: true, // per connection, never saved
		Width:         width,
		Height:        height,
		Seed:          s.config.Seed,
		Logger:        logger,
	}), nil
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeStore()
	return err
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
