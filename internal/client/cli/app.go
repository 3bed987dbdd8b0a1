package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/otpkeeper/internal/client/config"
	"github.com/dmitrijs2005/otpkeeper/internal/client/remote"
	"github.com/dmitrijs2005/otpkeeper/internal/client/services"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
	"github.com/dmitrijs2005/otpkeeper/internal/logging"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	accounts services.AccountService
	auth     services.AuthService
	sync     services.SyncService
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time
}

// Services groups the use cases the App drives.
type Services struct {
	Accounts services.AccountService
	Auth     services.AuthService
	Sync     services.SyncService
}

func NewApp(c *config.Config, log logging.Logger, s Services) *App {
	return &App{
		config:   c,
		log:      log,
		accounts: s.Accounts,
		auth:     s.Auth,
		sync:     s.Sync,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		now:      time.Now,
	}
}

// Run starts the REPL and blocks until the user leaves or ctx is done.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to otpkeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.auth.IsSignedIn()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s)", a.auth.Email(context.Background()))
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// report prints err in user terms and returns it unchanged.
func (a *App) report(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	a.log.Debug(ctx, "command failed", "error", err)

	var msg string
	switch {
	case errors.Is(err, common.ErrKeyNotDerived):
		msg = "Please log in first"
	case errors.Is(err, common.ErrDecryptionFailed):
		msg = "Wrong password or corrupted data"
	case errors.Is(err, common.ErrIncompatibleVersion):
		msg = "The remote vault was written by an incompatible client version"
	case errors.Is(err, common.ErrorUnauthorized):
		msg = "The remote vault belongs to another user"
	case errors.Is(err, common.ErrorNotFound):
		msg = "No such account"
	case errors.Is(err, remote.ErrDisabled):
		msg = "No remote store is configured"
	default:
		msg = err.Error()
	}
	a.printf("Error: %s\n", msg)
	return err
}
