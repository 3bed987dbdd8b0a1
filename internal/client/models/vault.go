package models

import "time"

// VaultVersion is the only vault format this client reads or writes.
const VaultVersion = 2

// VaultDocument is the per-user record kept by the remote document store.
// EncryptedData is opaque to the store.
type VaultDocument struct {
	EncryptedData string    `json:"encryptedData" bson:"encryptedData"`
	UserID        string    `json:"userId" bson:"userId"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
	Version       int       `json:"version" bson:"version"`
}
