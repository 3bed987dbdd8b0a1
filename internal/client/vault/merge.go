package vault

import (
	"sort"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
)

// Merge reconciles two collections by account id. A remote account is taken
// when it is unknown locally or strictly newer by UpdatedAt; ties keep the
// local one. The result is sorted by id.
//
// Deletions are not tracked. An account removed on one device comes back
// if another device still has it.
func Merge(local, remote []models.Account) []models.Account {
	byID := make(map[string]models.Account, len(local)+len(remote))
	for _, a := range local {
		byID[a.ID] = a
	}
	for _, r := range remote {
		if l, ok := byID[r.ID]; !ok || r.UpdatedAt > l.UpdatedAt {
			byID[r.ID] = r
		}
	}

	out := make([]models.Account, 0, len(byID))
	for _, a := range byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
