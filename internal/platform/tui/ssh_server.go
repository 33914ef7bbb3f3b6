package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
	"github.com/vovakirdan/mirrorhouse/internal/mirror"
	"github.com/vovakirdan/mirrorhouse/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.mirrorhouse/ssh_host_ed25519.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// PuzzlesDir is the puzzle pack offered in the menu. It is re-read
	// for every session.
	PuzzlesDir string

	MaxSteps        int
	StepsPerSecond  int
	LegacyRightGate bool
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:        ":23235",
		IdleTimeout:    30 * time.Minute,
		PuzzlesDir:     "./puzzles",
		StepsPerSecond: 8,
	}
}

// SSHServer wraps a Wish SSH server for the puzzle browser.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server. store may be nil, in which
// case runs are not recorded and the history screen stays empty.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "mirrorhouse-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" || hostKeyPath[0] == '~' {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		if hostKeyPath == "" {
			hostKeyPath = filepath.Join(home, ".mirrorhouse", "ssh_host_ed25519")
		} else {
			hostKeyPath = filepath.Join(home, hostKeyPath[1:])
		}
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(s.config, s.store, s.logger, sshSession.User(), pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
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

// ListenAndServe starts the SSH server and blocks until ctx is done.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down SSH server...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// StoreRecorder returns a RunRecorder that saves runs to store with the
// given source tag. A nil store yields a nil recorder.
func StoreRecorder(store *storage.Store, source string, logger *log.Logger) RunRecorder {
	if store == nil {
		return nil
	}
	return func(def boardfile.Definition, b *mirror.Board, out mirror.Outcome, maxSteps int) {
		rec := storage.NewRunRecord(def.ID, def.Hash(), b, out, maxSteps, source)
		if _, err := store.SaveRun(rec); err != nil && logger != nil {
			logger.Warn("could not record run", "board", def.ID, "error", err)
		}
	}
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenWatch
	screenHistory
)

// SessionModel manages one SSH session: menu -> watch or history -> menu.
type SessionModel struct {
	config   SSHServerConfig
	store    *storage.Store
	logger   *log.Logger
	username string
	width    int
	height   int
	screen   sessionScreen
	menu     MenuModel
	watch    WatchModel
	history  HistoryModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SSHServerConfig, store *storage.Store, logger *log.Logger, username string, width, height int) SessionModel {
	m := SessionModel{
		config:   cfg,
		store:    store,
		logger:   logger,
		username: username,
		width:    width,
		height:   height,
	}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) newMenu() MenuModel {
	loader := boardfile.NewLoader(m.config.PuzzlesDir)
	defs, err := loader.LoadAll()
	if err != nil && m.logger != nil {
		m.logger.Warn("could not load puzzles", "dir", m.config.PuzzlesDir, "error", err)
	}
	return NewMenuModel(defs, len(loader.Errors), m.width, m.height)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenWatch:
		return m.updateWatch(msg)
	case screenHistory:
		return m.updateHistory(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode. Quit commands from
// sub-models are swallowed; the session decides when to end.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsHistory() {
		var source HistorySource
		if m.store != nil {
			source = m.store
		}
		m.history = NewHistoryModel(source, "", m.width, m.height)
		m.screen = screenHistory
		return m, m.history.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		var opts []mirror.BoardOption
		if m.config.LegacyRightGate {
			opts = append(opts, mirror.WithLegacyRightGate())
		}
		b, beam, err := selected.Build(opts...)
		if err != nil {
			if m.logger != nil {
				m.logger.Warn("puzzle failed to build", "board", selected.ID, "error", err)
			}
			m.menu = m.newMenu()
			return m, nil
		}

		m.watch = NewWatchModel(*selected, b, beam, WatchOptions{
			MaxSteps:       m.config.MaxSteps,
			StepsPerSecond: m.config.StepsPerSecond,
			Recorder:       StoreRecorder(m.store, "ssh", m.logger),
		})
		m.screen = screenWatch
		return m, m.watch.Init()
	}

	return m, cmd
}

// updateWatch handles updates when watching a run.
func (m SessionModel) updateWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.watch.Update(msg)
	if watchModel, ok := newModel.(WatchModel); ok {
		m.watch = watchModel
	}

	if m.watch.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.watch.BackToMenu() {
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateHistory handles updates when browsing the history.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if historyModel, ok := newModel.(HistoryModel); ok {
		m.history = historyModel
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.history.IsGoingBack() {
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenWatch:
		return m.watch.View()
	case screenHistory:
		return m.history.View()
	}
	return m.menu.View()
}
