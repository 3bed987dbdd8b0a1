package vault

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
	"github.com/dmitrijs2005/otpkeeper/internal/cryptox"
)

// KeySource hands out the current vault key. *session.Session implements it.
type KeySource interface {
	Key() ([]byte, error)
}

// Cipher encrypts and decrypts account collections with the session key.
type Cipher struct {
	keys KeySource
	now  func() time.Time
}

func NewCipher(keys KeySource) *Cipher {
	return &Cipher{keys: keys, now: time.Now}
}

// EncryptAccounts wraps accounts in a version 2 envelope stamped with the
// current time and encrypts it.
func (c *Cipher) EncryptAccounts(accounts []models.Account, email string) (string, error) {
	key, err := c.keys.Key()
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(key)

	if accounts == nil {
		accounts = []models.Account{}
	}
	plaintext, err := json.Marshal(Envelope{
		Version:   models.VaultVersion,
		Accounts:  accounts,
		Timestamp: c.now().UnixMilli(),
		Email:     email,
	})
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	defer common.WipeByteArray(plaintext)

	return cryptox.Encrypt(plaintext, key)
}

// DecryptEnvelope decrypts blob and returns the whole envelope.
func (c *Cipher) DecryptEnvelope(blob string) (Envelope, error) {
	key, err := c.keys.Key()
	if err != nil {
		return Envelope{}, err
	}
	defer common.WipeByteArray(key)

	plaintext, err := cryptox.Decrypt(blob, key)
	if err != nil {
		return Envelope{}, err
	}
	defer common.WipeByteArray(plaintext)

	env, err := UnmarshalEnvelope(plaintext)
	if err != nil {
		return Envelope{}, err
	}
	for i := range env.Accounts {
		env.Accounts[i] = env.Accounts[i].Normalized()
	}
	return env, nil
}

// DecryptAccounts decrypts blob and returns its accounts.
func (c *Cipher) DecryptAccounts(blob string) ([]models.Account, error) {
	env, err := c.DecryptEnvelope(blob)
	if err != nil {
		return nil, err
	}
	return env.Accounts, nil
}
