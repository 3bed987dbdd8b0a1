package vault

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
	"github.com/dmitrijs2005/otpkeeper/internal/cryptox"
	"github.com/dmitrijs2005/otpkeeper/internal/otp"
)

type staticKey struct {
	key []byte
	err error
}

func (s staticKey) Key() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]byte(nil), s.key...), nil
}

func newTestCipher(b byte) *Cipher {
	c := NewCipher(staticKey{key: bytes.Repeat([]byte{b}, cryptox.KeySize)})
	c.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return c
}

func sampleAccounts() []models.Account {
	return []models.Account{
		{ID: "a", Issuer: "GitHub", AccountName: "octocat", Secret: "JBSWY3DPEHPK3PXP",
			Algorithm: otp.SHA1, Digits: 6, Period: 30, CreatedAt: 1, UpdatedAt: 2},
		{ID: "b", Issuer: "ACME", AccountName: "bob", Secret: "GEZDGNBVGY3TQOJQ",
			Algorithm: otp.SHA512, Digits: 8, Period: 60, CreatedAt: 3, UpdatedAt: 4},
	}
}

func TestCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(9)

	blob, err := c.EncryptAccounts(sampleAccounts(), "alice@example.com")
	require.NoError(t, err)

	env, err := c.DecryptEnvelope(blob)
	require.NoError(t, err)
	assert.Equal(t, models.VaultVersion, env.Version)
	assert.Equal(t, "alice@example.com", env.Email)
	assert.Equal(t, int64(1_700_000_000_000), env.Timestamp)
	assert.Equal(t, sampleAccounts(), env.Accounts)

	accs, err := c.DecryptAccounts(blob)
	require.NoError(t, err)
	assert.Equal(t, sampleAccounts(), accs)
}

func TestCipher_EmptyCollection(t *testing.T) {
	c := newTestCipher(9)

	blob, err := c.EncryptAccounts(nil, "a@b.c")
	require.NoError(t, err)

	accs, err := c.DecryptAccounts(blob)
	require.NoError(t, err)
	assert.NotNil(t, accs)
	assert.Empty(t, accs)
}

func TestCipher_WrongKey(t *testing.T) {
	blob, err := newTestCipher(1).EncryptAccounts(sampleAccounts(), "a@b.c")
	require.NoError(t, err)

	accs, err := newTestCipher(2).DecryptAccounts(blob)
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
	assert.Nil(t, accs)
}

func TestCipher_NoKey(t *testing.T) {
	c := NewCipher(staticKey{err: common.ErrKeyNotDerived})

	_, err := c.EncryptAccounts(sampleAccounts(), "a@b.c")
	assert.ErrorIs(t, err, common.ErrKeyNotDerived)

	_, err = c.DecryptAccounts("AAAA")
	assert.ErrorIs(t, err, common.ErrKeyNotDerived)
}

func encryptRaw(t *testing.T, payload string, b byte) string {
	t.Helper()
	blob, err := cryptox.Encrypt([]byte(payload), bytes.Repeat([]byte{b}, cryptox.KeySize))
	require.NoError(t, err)
	return blob
}

func TestCipher_VersionGate(t *testing.T) {
	c := newTestCipher(5)

	for _, payload := range []string{
		`{"version":1,"accounts":[],"timestamp":1,"email":"a"}`,
		`{"version":3,"accounts":[],"timestamp":1,"email":"a"}`,
		`{"accounts":[],"timestamp":1,"email":"a"}`,
		// the version decides even when the rest would not decode
		`{"version":1,"accounts":"not a list"}`,
		`{"version":2.0,"accounts":[],"timestamp":1,"email":"a"}`,
		`{"version":"2","accounts":[],"timestamp":1,"email":"a"}`,
		`{"version":null,"accounts":[],"timestamp":1,"email":"a"}`,
	} {
		_, err := c.DecryptAccounts(encryptRaw(t, payload, 5))
		assert.ErrorIs(t, err, common.ErrIncompatibleVersion, payload)
		assert.NotErrorIs(t, err, common.ErrDecryptionFailed, payload)
	}
}

func TestCipher_CorruptEnvelope(t *testing.T) {
	c := newTestCipher(5)

	_, err := c.DecryptAccounts(encryptRaw(t, `not json`, 5))
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)

	_, err = c.DecryptAccounts(encryptRaw(t, `{"version":2,"accounts":"nope"}`, 5))
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestCipher_NormalizesForeignAccounts(t *testing.T) {
	c := newTestCipher(5)
	payload := `{"version":2,"timestamp":1,"email":"a","accounts":[
		{"id":"x","issuer":"I","accountName":"N","secret":"jbsw y3dp","algorithm":"sha256","digits":6,"period":30,"createdAt":1,"updatedAt":1}]}`

	accs, err := c.DecryptAccounts(encryptRaw(t, payload, 5))
	require.NoError(t, err)
	require.Len(t, accs, 1)
	assert.Equal(t, "JBSWY3DP", accs[0].Secret)
	assert.Equal(t, otp.SHA256, accs[0].Algorithm)
}

func TestEnvelope_WireShape(t *testing.T) {
	b, err := json.Marshal(Envelope{Version: 2, Accounts: []models.Account{}, Timestamp: 7, Email: "e"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2,"accounts":[],"timestamp":7,"email":"e"}`, string(b))
}
