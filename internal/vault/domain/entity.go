package domain

// DefaultNamespace is the namespace every EntityTag and store partition uses unless the
// process is configured otherwise. Changing it orphans every existing entry.
const DefaultNamespace = "RN_KEYCHAIN"

// EntityTag is the associated data a secret is sealed with: "<namespace>:<service>:<account>".
//
// A record sealed for one key fails authentication when opened under any other, so swapping
// stored values between entries is detected rather than silently returning the wrong secret.
type EntityTag string

// Bytes returns the tag as AEAD associated data.
func (t EntityTag) Bytes() []byte {
	return []byte(t)
}

// Binder derives entity tags for a fixed namespace.
type Binder struct {
	Namespace string
}

// NewBinder returns a Binder, falling back to DefaultNamespace when namespace is empty.
func NewBinder(namespace string) Binder {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Binder{Namespace: namespace}
}

// Bind returns the entity tag for key. It is pure and never fails.
func (b Binder) Bind(key CredentialKey) EntityTag {
	return EntityTag(b.Namespace + ":" + key.Service + ":" + key.Account)
}
