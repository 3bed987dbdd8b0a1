// Package vault turns an account collection into the encrypted blob that is
// synced between devices, and merges collections coming back from the store.
package vault

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
)

// Envelope is the plaintext inside an encrypted vault blob.
type Envelope struct {
	Version   int              `json:"version"`
	Accounts  []models.Account `json:"accounts"`
	Timestamp int64            `json:"timestamp"`
	Email     string           `json:"email"`
}

// UnmarshalEnvelope checks the version before anything else in data is
// decoded. A version that is missing, not a JSON integer or other than
// models.VaultVersion yields common.ErrIncompatibleVersion.
func UnmarshalEnvelope(data []byte) (Envelope, error) {
	var head struct {
		Version json.RawMessage `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Envelope{}, fmt.Errorf("%w: envelope: %v", common.ErrDecryptionFailed, err)
	}
	if len(head.Version) == 0 || string(head.Version) == "null" {
		return Envelope{}, fmt.Errorf("%w: version missing", common.ErrIncompatibleVersion)
	}
	var version int
	if err := json.Unmarshal(head.Version, &version); err != nil {
		return Envelope{}, fmt.Errorf("%w: version %s", common.ErrIncompatibleVersion, head.Version)
	}
	if version != models.VaultVersion {
		return Envelope{}, fmt.Errorf("%w: got %d, want %d", common.ErrIncompatibleVersion, version, models.VaultVersion)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: envelope: %v", common.ErrDecryptionFailed, err)
	}
	if env.Accounts == nil {
		env.Accounts = []models.Account{}
	}
	return env, nil
}
