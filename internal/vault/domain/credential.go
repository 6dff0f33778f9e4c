package domain

import "strings"

// CredentialKey identifies one keychain entry. Service may be empty; Account may not.
type CredentialKey struct {
	Service string
	Account string
}

// NewCredentialKey builds a key from a nullable service.
func NewCredentialKey(service *string, account string) CredentialKey {
	return CredentialKey{Service: NormalizeService(service), Account: account}
}

// StorageKey is the entry name inside the store partition: "<service>:<account>".
//
// Two distinct keys can share a StorageKey when either part contains ':', so stores index on
// the (Service, Account) pair and keep StorageKey for display and logging only.
func (k CredentialKey) StorageKey() string {
	var b strings.Builder
	b.Grow(len(k.Service) + len(k.Account) + 1)
	b.WriteString(k.Service)
	b.WriteByte(':')
	b.WriteString(k.Account)
	return b.String()
}

// NormalizeService maps an absent service to the empty string.
func NormalizeService(service *string) string {
	if service == nil {
		return ""
	}
	return *service
}

// StoredEntry is one persisted keychain entry in its encoded form.
type StoredEntry struct {
	Key    CredentialKey
	Record string
}
