package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/marketdesk/internal/client/client"
	"github.com/dmitrijs2005/marketdesk/internal/client/config"
	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/services"
	"github.com/dmitrijs2005/marketdesk/internal/client/storage"
	"github.com/dmitrijs2005/marketdesk/internal/filex"
	"github.com/dmitrijs2005/marketdesk/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	log    logging.Logger

	store *storage.Adapter
	auth  *services.AuthService
	lists *services.ListService
	cart  *services.Cart
	api   services.API
	dash  *services.Dashboard

	clock  services.Clock
	reader *bufio.Reader
	out    io.Writer

	modeMu sync.Mutex
	mode   Mode

	// last list results, used by follow-up commands
	vendors  map[string]models.VendorStatus
	products []models.Product

	closers []func() error
}

// NewApp wires logging, the session store and the API client from c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, closeLog, err := newLogger(c)
	if err != nil {
		return nil, err
	}

	kv, closeStore, err := newKV(ctx, c)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	api, err := client.New(client.Options{BaseURL: c.APIBaseURL, Timeout: c.RequestTimeout, Logger: log})
	if err != nil {
		_ = closeStore()
		_ = closeLog()
		return nil, err
	}

	a := newApp(c, log, api, kv, os.Stdin, os.Stdout)
	a.closers = append(a.closers, closeStore, closeLog)
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, api services.API, kv storage.KV, in io.Reader, out io.Writer) *App {
	store := storage.NewAdapter(kv, log)
	return &App{
		config:  c,
		log:     log,
		store:   store,
		api:     api,
		auth:    services.NewAuthService(api, store, log),
		lists:   services.NewListService(api, log),
		cart:    services.NewCart(store),
		clock:   services.SystemClock,
		reader:  bufio.NewReader(in),
		out:     out,
		vendors: map[string]models.VendorStatus{},
	}
}

func newLogger(c *config.Config) (logging.Logger, func() error, error) {
	if c.LogFile == "" {
		return logging.NewTextLogger(os.Stderr, c.LogLevel), func() error { return nil }, nil
	}
	if err := filex.EnsureParentDir(c.LogFile); err != nil {
		return nil, nil, fmt.Errorf("log dir: %w", err)
	}
	zl, err := logging.NewFileLogger(logging.FileOptions{Path: c.LogFile, Level: c.LogLevel})
	if err != nil {
		return nil, nil, err
	}
	return zl, zl.Sync, nil
}

func newKV(ctx context.Context, c *config.Config) (storage.KV, func() error, error) {
	if c.Ephemeral {
		return storage.NewMemoryKV(), func() error { return nil }, nil
	}
	if err := filex.EnsureParentDir(c.SessionDB); err != nil {
		return nil, nil, fmt.Errorf("session dir: %w", err)
	}
	db, err := storage.OpenSQLite(ctx, c.SessionDB)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewSQLiteKV(db), db.Close, nil
}

// Close releases the store and flushes logs.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

// Mode is the last observed connectivity state.
func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

// Run greets the user, restores a cached session and runs the REPL until
// the input ends or the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "close:", err)
		}
	}()

	fmt.Fprintln(a.out, "Welcome to marketdesk (type 'help' for commands)")
	if auth, ok := a.auth.Current(ctx); ok {
		fmt.Fprintf(a.out, "Signed in as %s (%s)\n", auth.User.BioData.FullName(), auth.PrimaryRole())
		_ = a.openDashboard(ctx, auth, "")
	}

	watchCtx, stop := context.WithCancel(ctx)
	defer stop()
	go a.StartOnlineStatusWatcher(watchCtx, 10*time.Second)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// StartOnlineStatusWatcher pings the API every interval and flips Mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.auth.Ping(pingCtx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

func (a *App) getStatus() string {
	s := ""
	if a.dash != nil && a.dash.Mounted() {
		s = a.dash.Spec().Kind + ":" + a.dash.ActiveTab()
	}
	if mode := a.Mode(); mode != "" {
		if s != "" {
			s += " "
		}
		s += string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
