package cli

import (
	"context"
	"time"
)

// Sync merges the local accounts with the remote vault.
func (a *App) Sync(ctx context.Context, _ []string) error {
	if a.config != nil && a.config.RemoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.RemoteTimeout)
		defer cancel()
	}

	res, err := a.sync.Sync(ctx)
	if err != nil {
		return a.report(ctx, err)
	}

	if !res.RemoteFound {
		a.printf("No remote vault yet, uploaded %d accounts\n", res.Merged)
		return nil
	}
	a.printf("Synced: %d local, %d remote, %d after merge\n", res.Local, res.Remote, res.Merged)
	return nil
}

// Status prints who is logged in and when the vault was last synced.
func (a *App) Status(ctx context.Context, _ []string) error {
	if a.isLoggedIn() {
		a.printf("Logged in as %s\n", a.auth.Email(ctx))
	} else {
		a.printf("Not logged in\n")
	}

	last, err := a.sync.LastSynced(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	if last.IsZero() {
		a.printf("Never synced\n")
	} else {
		a.printf("Last synced %s\n", last.Local().Format(time.DateTime))
	}
	return nil
}
