package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/client/qr"
	"github.com/dmitrijs2005/otpkeeper/internal/client/services"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
	"github.com/dmitrijs2005/otpkeeper/internal/otp"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	a.printf("Usage: %s\n", text)
	return errUsage
}

// readAccountInput prompts for every field of an account. def supplies the
// values offered as defaults.
func (a *App) readAccountInput(def services.AccountInput) (services.AccountInput, error) {
	var (
		in  services.AccountInput
		err error
	)
	if in.Issuer, err = GetTextDefault(a.reader, "Issuer", def.Issuer, a.out); err != nil {
		return in, err
	}
	if in.AccountName, err = GetTextDefault(a.reader, "Account name", def.AccountName, a.out); err != nil {
		return in, err
	}
	if in.Secret, err = GetSimpleText(a.reader, "Secret (Base32)", a.out); err != nil {
		return in, err
	}
	if in.Algorithm, err = GetTextDefault(a.reader, "Algorithm (SHA1, SHA256, SHA512)", def.Algorithm, a.out); err != nil {
		return in, err
	}
	if in.Digits, err = GetInt(a.reader, "Digits", def.Digits, a.out); err != nil {
		return in, err
	}
	if in.Period, err = GetInt(a.reader, "Period (seconds)", def.Period, a.out); err != nil {
		return in, err
	}
	return in, nil
}

func defaultInput() services.AccountInput {
	p := otp.DefaultParams()
	return services.AccountInput{Algorithm: p.Algorithm.String(), Digits: p.Digits, Period: p.Period}
}

// Add prompts for a new account.
func (a *App) Add(ctx context.Context, _ []string) error {
	in, err := a.readAccountInput(defaultInput())
	if err != nil {
		return a.report(ctx, err)
	}

	acc, err := a.accounts.Add(ctx, in)
	if err != nil {
		return a.report(ctx, err)
	}
	a.printf("Added %s [%s]\n", acc.Label(), acc.ID)
	return nil
}

// Edit prompts for new values of an existing account.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("edit <id>")
	}

	cur, err := a.findAccount(ctx, args[0])
	if err != nil {
		return a.report(ctx, err)
	}

	in, err := a.readAccountInput(services.AccountInput{
		Issuer:      cur.Issuer,
		AccountName: cur.AccountName,
		Algorithm:   cur.Algorithm.String(),
		Digits:      cur.Digits,
		Period:      cur.Period,
	})
	if err != nil {
		return a.report(ctx, err)
	}
	if in.Secret == "" {
		in.Secret = cur.Secret
	}

	acc, err := a.accounts.Update(ctx, cur.ID, in)
	if err != nil {
		return a.report(ctx, err)
	}
	a.printf("Updated %s\n", acc.Label())
	return nil
}

// Import adds an account from an otpauth URI given as argument or prompted.
func (a *App) Import(ctx context.Context, args []string) error {
	uri := strings.Join(args, " ")
	if uri == "" {
		var err error
		if uri, err = GetSimpleText(a.reader, "Paste otpauth:// URI", a.out); err != nil {
			return a.report(ctx, err)
		}
	}

	acc, err := a.accounts.Import(ctx, uri)
	if err != nil {
		return a.report(ctx, err)
	}
	a.printf("Imported %s [%s]\n", acc.Label(), acc.ID)
	return nil
}

// Export prints the otpauth URI of one account.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("export <id>")
	}
	acc, err := a.findAccount(ctx, args[0])
	if err != nil {
		return a.report(ctx, err)
	}
	uri, err := a.accounts.Export(ctx, acc.ID)
	if err != nil {
		return a.report(ctx, err)
	}
	a.printf("%s\n", uri)
	return nil
}

// QR prints the account's QR code, or writes it as PNG when a file name is
// given.
func (a *App) QR(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return a.usage("qr <id> [file.png]")
	}
	acc, err := a.findAccount(ctx, args[0])
	if err != nil {
		return a.report(ctx, err)
	}

	if len(args) == 1 {
		uri, err := a.accounts.Export(ctx, acc.ID)
		if err != nil {
			return a.report(ctx, err)
		}
		code, err := qr.Terminal(uri)
		if err != nil {
			return a.report(ctx, err)
		}
		a.printf("%s", code)
		return nil
	}

	png, err := a.accounts.ExportQR(ctx, acc.ID, qr.DefaultSize)
	if err != nil {
		return a.report(ctx, err)
	}
	if err := os.WriteFile(args[1], png, 0o600); err != nil {
		return a.report(ctx, fmt.Errorf("write %s: %w", args[1], err))
	}
	a.printf("QR code saved to %s\n", args[1])
	return nil
}

// List prints all accounts with their ids.
func (a *App) List(ctx context.Context, _ []string) error {
	rows, err := a.accounts.List(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(rows) == 0 {
		a.printf("No accounts\n")
		return nil
	}
	for _, acc := range rows {
		a.printf("%s  %s  %s/%d/%ds\n", acc.ID, acc.Label(), acc.Algorithm, acc.Digits, acc.Period)
	}
	return nil
}

// Delete removes one account after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("delete <id>")
	}

	acc, err := a.findAccount(ctx, args[0])
	if err != nil {
		return a.report(ctx, err)
	}

	ok, err := GetConfirmation(a.reader, fmt.Sprintf("Delete %s?", acc.Label()), a.out)
	if err != nil || !ok {
		return a.report(ctx, err)
	}

	if err := a.accounts.Delete(ctx, acc.ID); err != nil {
		return a.report(ctx, err)
	}
	a.printf("Deleted\n")
	return nil
}

// DeleteAll removes every local account after confirmation.
func (a *App) DeleteAll(ctx context.Context, _ []string) error {
	ok, err := GetConfirmation(a.reader, "Delete ALL local accounts?", a.out)
	if err != nil || !ok {
		return a.report(ctx, err)
	}
	if err := a.accounts.DeleteAll(ctx); err != nil {
		return a.report(ctx, err)
	}
	a.printf("All accounts deleted\n")
	return nil
}

// findAccount resolves an id or an unambiguous id prefix.
func (a *App) findAccount(ctx context.Context, ref string) (models.Account, error) {
	rows, err := a.accounts.List(ctx)
	if err != nil {
		return models.Account{}, err
	}

	var found []models.Account
	for _, acc := range rows {
		if acc.ID == ref {
			return acc, nil
		}
		if strings.HasPrefix(acc.ID, ref) {
			found = append(found, acc)
		}
	}
	switch len(found) {
	case 0:
		return models.Account{}, common.ErrorNotFound
	case 1:
		return found[0], nil
	}
	return models.Account{}, fmt.Errorf("id prefix %q matches %d accounts", ref, len(found))
}
