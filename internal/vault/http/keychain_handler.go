// Package http provides the bridge API exposing the keychain operations over HTTP.
//
// Every endpoint answers with the two-slot body {"error": ..., "result": ...}; a non-empty
// error means the operation failed and result must be ignored.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keychain/internal/httputil"
	customValidation "github.com/allisson/keychain/internal/validation"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
	"github.com/allisson/keychain/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/keychain/internal/vault/usecase"
)

// KeychainHandler handles HTTP requests for the generic password and internet credential
// operations. Operations run on the vault dispatcher; the handler waits for their result.
type KeychainHandler struct {
	vault  vaultUseCase.AsyncVault
	logger *slog.Logger
}

// NewKeychainHandler creates a new keychain handler.
func NewKeychainHandler(vault vaultUseCase.AsyncVault, logger *slog.Logger) *KeychainHandler {
	return &KeychainHandler{
		vault:  vault,
		logger: logger,
	}
}

// SetGenericPasswordHandler stores a password for (service, account).
// POST /v1/keychain/generic/set
func (h *KeychainHandler) SetGenericPasswordHandler(c *gin.Context) {
	var req dto.SetGenericPasswordRequest
	if !h.bind(c, &req) {
		return
	}

	h.respond(c, h.vault.SetGenericPasswordForService(c.Request.Context(), req.Service, req.Account, req.Password))
}

// GetGenericPasswordHandler returns the password stored for (service, account).
// POST /v1/keychain/generic/get
func (h *KeychainHandler) GetGenericPasswordHandler(c *gin.Context) {
	var req dto.GenericPasswordRequest
	if !h.bind(c, &req) {
		return
	}

	h.respond(c, h.vault.GetGenericPasswordForService(c.Request.Context(), req.Service, req.Account))
}

// ResetGenericPasswordHandler removes the entry for (service, account). Removing a missing
// entry succeeds.
// POST /v1/keychain/generic/reset
func (h *KeychainHandler) ResetGenericPasswordHandler(c *gin.Context) {
	var req dto.GenericPasswordRequest
	if !h.bind(c, &req) {
		return
	}

	h.respond(c, h.vault.ResetGenericPasswordForService(c.Request.Context(), req.Service, req.Account))
}

// SetInternetCredentialsHandler stores a password for (server, account).
// POST /v1/keychain/internet/set
func (h *KeychainHandler) SetInternetCredentialsHandler(c *gin.Context) {
	var req dto.SetInternetCredentialsRequest
	if !h.bind(c, &req) {
		return
	}

	server := vaultDomain.NormalizeService(req.Server)
	h.respond(c, h.vault.SetInternetCredentialsForServer(c.Request.Context(), server, req.Account, req.Password))
}

// GetInternetCredentialsHandler returns the password stored for (server, account).
// POST /v1/keychain/internet/get
func (h *KeychainHandler) GetInternetCredentialsHandler(c *gin.Context) {
	var req dto.InternetCredentialsRequest
	if !h.bind(c, &req) {
		return
	}

	server := vaultDomain.NormalizeService(req.Server)
	h.respond(c, h.vault.GetInternetCredentialsForServer(c.Request.Context(), server, req.Account))
}

// ResetInternetCredentialsHandler removes the entry for (server, account).
// POST /v1/keychain/internet/reset
func (h *KeychainHandler) ResetInternetCredentialsHandler(c *gin.Context) {
	var req dto.InternetCredentialsRequest
	if !h.bind(c, &req) {
		return
	}

	server := vaultDomain.NormalizeService(req.Server)
	h.respond(c, h.vault.ResetInternetCredentialsForServer(c.Request.Context(), server, req.Account))
}

type validatable interface {
	Validate() error
}

// bind decodes and validates the JSON body, writing the error response itself on failure.
func (h *KeychainHandler) bind(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return false
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return false
	}

	return true
}

func (h *KeychainHandler) respond(c *gin.Context, results <-chan vaultDomain.Result) {
	result := <-results
	if !result.OK() {
		httputil.HandleErrorGin(c, result.Err(), h.logger)
		return
	}

	httputil.HandleSuccessGin(c, result.Value)
}
