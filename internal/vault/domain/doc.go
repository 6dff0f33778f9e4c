// Package domain defines the keychain vault's core types: the (service, account) credential
// key, the entity tag that binds a sealed secret to that key, the encrypted record persisted
// by the store and the two-slot result handed back to asynchronous callers.
package domain
