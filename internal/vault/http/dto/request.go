// Package dto provides data transfer objects for the keychain bridge API.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/keychain/internal/validation"
)

// SetGenericPasswordRequest stores a password under (service, account). A null or absent
// service is the empty service.
type SetGenericPasswordRequest struct {
	Service  *string `json:"service"`
	Account  string  `json:"account"`
	Password string  `json:"password"`
}

// Validate checks field shape only; empty account or password is reported by the vault.
func (r *SetGenericPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Service, customValidation.Identifier...),
		validation.Field(&r.Account, customValidation.Identifier...),
		validation.Field(&r.Password, validation.Length(0, customValidation.MaxPasswordLength)),
	)
}

// GenericPasswordRequest addresses the entry read or removed by get and reset.
type GenericPasswordRequest struct {
	Service *string `json:"service"`
	Account string  `json:"account"`
}

// Validate checks if the request is valid.
func (r *GenericPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Service, customValidation.Identifier...),
		validation.Field(&r.Account, customValidation.Identifier...),
	)
}

// SetInternetCredentialsRequest stores a password under (server, account).
type SetInternetCredentialsRequest struct {
	Server   *string `json:"server"`
	Account  string  `json:"account"`
	Password string  `json:"password"`
}

// Validate checks if the request is valid.
func (r *SetInternetCredentialsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Server, customValidation.Identifier...),
		validation.Field(&r.Account, customValidation.Identifier...),
		validation.Field(&r.Password, validation.Length(0, customValidation.MaxPasswordLength)),
	)
}

// InternetCredentialsRequest addresses the entry read or removed by the internet get and reset.
type InternetCredentialsRequest struct {
	Server  *string `json:"server"`
	Account string  `json:"account"`
}

// Validate checks if the request is valid.
func (r *InternetCredentialsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Server, customValidation.Identifier...),
		validation.Field(&r.Account, customValidation.Identifier...),
	)
}
