// Package ledger keeps the per-user record of language preference and issued
// VPN links. Records are created lazily on first access and never expire.
package ledger

import "context"

// DefaultLanguage is assumed for users without a stored preference.
const DefaultLanguage = "en"

// UserRecord is one user's ledger entry. Keys preserve issuance order; once
// appended a key is never mutated or removed.
type UserRecord struct {
	Lang string   `json:"lang"`
	Keys []string `json:"keys"`
}

// Store provides atomic read-modify-write access to user records.
// Implementations must serialize concurrent mutations for the same user.
type Store interface {
	// Language returns the stored language for userID or DefaultLanguage.
	Language(ctx context.Context, userID string) string
	// SetLanguage creates the record if absent, stores lang, and persists.
	SetLanguage(ctx context.Context, userID, lang string) error
	// Record returns a copy of the user's record; unseen users yield an
	// empty record with the default language.
	Record(ctx context.Context, userID string) (UserRecord, error)
	// AppendKey creates the record if absent, appends link preserving
	// arrival order, and persists.
	AppendKey(ctx context.Context, userID, link string) error
}

func (r UserRecord) clone() UserRecord {
	out := UserRecord{Lang: r.Lang}
	if len(r.Keys) > 0 {
		out.Keys = append([]string(nil), r.Keys...)
	}
	return out
}
