package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/cloudshare/internal/client/account"
	"github.com/dmitrijs2005/cloudshare/internal/client/catalog"
	"github.com/dmitrijs2005/cloudshare/internal/client/client"
	"github.com/dmitrijs2005/cloudshare/internal/client/config"
	"github.com/dmitrijs2005/cloudshare/internal/client/notify"
	"github.com/dmitrijs2005/cloudshare/internal/client/optimistic"
	"github.com/dmitrijs2005/cloudshare/internal/client/payment"
	"github.com/dmitrijs2005/cloudshare/internal/client/services"
	"github.com/dmitrijs2005/cloudshare/internal/client/session"
	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	closer   io.Closer
	state    *session.State
	files    services.FileService
	users    services.UserService
	account  *account.Manager
	catalog  *catalog.Catalog
	checkout *payment.Orchestrator
	notify   notify.Notifier
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the session store and builds every component against the
// configured backend.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, c.LogLevel)

	store, err := session.OpenKVStore(ctx, c.SessionDBPath)
	if err != nil {
		log.Error(ctx, "error opening session store", "path", c.SessionDBPath, "err", err)
		return nil, err
	}

	gw, err := client.NewHTTPClient(c.APIBaseURL,
		client.WithUploadBaseURL(c.UploadBaseURL),
		client.WithTimeout(c.RequestTimeout),
		client.WithTokenSource(store),
		client.WithLogger(log),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a := assemble(c, gw, store, notify.NewPrinter(os.Stdout), bufio.NewReader(os.Stdin), os.Stdout, log)
	a.closer = store
	return a, nil
}

// assemble wires the components. Tests call it with a fake backend and an
// in-memory store.
func assemble(c *config.Config, gw client.Gateway, store session.Store, n notify.Notifier, in *bufio.Reader, out io.Writer, log logging.Logger) *App {
	state := session.NewState(store, log)
	mutations := optimistic.NewController(n, log)

	auth := services.NewAuthService(gw, log)
	files := services.NewFileService(gw)
	users := services.NewUserService(gw, c.SuggestionsTTL)
	billing := services.NewBillingService(gw, c.OrderDefaults())

	checkout := payment.New(billing, newTerminalWidget(in, out), state, mutations, n,
		payment.Config{Plan: c.Plan, Key: c.PaymentKey},
		payment.WithLogger(log),
	)

	return &App{
		config:   c,
		log:      log,
		state:    state,
		files:    files,
		users:    users,
		account:  account.New(state, auth, users, billing, n, log),
		catalog:  catalog.New(files, mutations, n, log),
		checkout: checkout,
		notify:   n,
		reader:   in,
		out:      out,
	}
}

// Run resumes a stored session, if any, and blocks in the REPL until the
// user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to CloudShare CLI (type 'help' for commands)")
	ok, err := a.account.Restore(ctx)
	switch {
	case err != nil:
		a.log.Warn(ctx, "could not resume session", "err", err)
	case ok:
		u, _ := a.state.User()
		printlnFn("Signed in as", u.DisplayName())
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.state.User()
	return ok
}

func (a *App) status() string {
	u, ok := a.state.User()
	if !ok {
		return ""
	}
	parts := []string{u.Email}
	if u.IsPremium {
		parts = append(parts, "premium")
	}
	if !u.EmailVerified {
		parts = append(parts, "unverified")
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// fail reports an error from a direct service call and returns it.
func (a *App) fail(err error, fallback string) error {
	a.notify.Error(common.UserMessage(err, fallback))
	return err
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

// progress renders a percentage on one line.
func (a *App) progress(label string) func(int) {
	return func(p int) {
		a.printf("\r%s %3d%%", label, p)
		if p >= 100 {
			a.printf("\n")
		}
	}
}
