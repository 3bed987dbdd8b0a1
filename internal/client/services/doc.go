// Package services holds the client use cases: account management, sign-in
// and vault synchronization. The CLI talks to these interfaces only.
package services
