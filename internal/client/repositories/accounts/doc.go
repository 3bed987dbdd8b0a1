// Package accounts persists OTP accounts in the local SQLite database.
package accounts
