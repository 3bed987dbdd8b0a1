package cli

import (
	"context"

	"github.com/dmitrijs2005/otpkeeper/internal/common"
)

// getPassword is an indirection used to facilitate testing.
var getPassword = GetPassword

// Login prompts for an email (the remembered one is the default) and a
// password, then derives the vault key. The password is wiped before
// returning.
func (a *App) Login(ctx context.Context) error {
	email, err := GetTextDefault(a.reader, "Enter email", a.auth.Email(ctx), a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	defer common.WipeByteArray(password)

	a.printf("Deriving key...\n")
	if err := a.auth.SignIn(ctx, email, password); err != nil {
		return a.report(ctx, err)
	}

	a.printf("Logged in as %s\n", email)
	return nil
}

// Logout forgets the key and the remembered email. Local accounts stay.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		return a.report(ctx, err)
	}
	a.printf("Logged out\n")
	return nil
}
