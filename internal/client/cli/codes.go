package cli

import (
	"context"
	"time"
)

func (a *App) printCodes(ctx context.Context) error {
	rows, err := a.accounts.Codes(ctx, a.now())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		a.printf("No accounts\n")
		return nil
	}
	for _, v := range rows {
		if v.Err != nil {
			a.printf("%-40s  error: %v\n", v.Label, v.Err)
			continue
		}
		a.printf("%-40s  %s  %2ds\n", v.Label, v.Code, v.Remaining)
	}
	return nil
}

// Codes prints the current code of every account once.
func (a *App) Codes(ctx context.Context, _ []string) error {
	return a.report(ctx, a.printCodes(ctx))
}

// Watch reprints the codes every RefreshInterval until the user presses
// Enter. A failed refresh is reported and ends the ticking, but Watch still
// waits for the Enter so the line is not taken from the next command. It
// returns early only when ctx is done, which also ends the REPL.
func (a *App) Watch(ctx context.Context, _ []string) error {
	interval := time.Second
	if a.config != nil && a.config.RefreshInterval > 0 {
		interval = a.config.RefreshInterval
	}

	stop := make(chan struct{})
	go func() {
		_, _ = a.reader.ReadString('\n')
		close(stop)
	}()

	a.printf("Press Enter to stop\n")
	err := a.printCodes(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for err == nil {
		select {
		case <-ticker.C:
			a.printf("\n")
			err = a.printCodes(ctx)
		case <-stop:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
	ticker.Stop()

	err = a.report(ctx, err)
	select {
	case <-stop:
	case <-ctx.Done():
	}
	return err
}
