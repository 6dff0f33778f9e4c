package service

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"

	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsSchemes lists the keeper drivers linked into the binary. base64key is the local keeper
// used in development and tests.
var kmsSchemes = []string{"awskms", "azurekeyvault", "gcpkms", "hashivault", "base64key"}

// KMSService opens the keeper that wraps the vault's master keys.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a new KMSService.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens the keeper at keyURI. The caller must Close it.
//
// A URI with an unknown scheme fails with ErrUnsupportedKMSKeyURI before any driver is
// contacted, so a typo in KMS_KEY_URI reads as bad input rather than an outage.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	u, err := url.Parse(keyURI)
	if err != nil || !slices.Contains(kmsSchemes, u.Scheme) {
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedKMSKeyURI, redactKeyURI(u))
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s keeper: %w", u.Scheme, err)
	}
	return keeper, nil
}

// redactKeyURI keeps the scheme and host of a key URI for error messages. A base64key URI
// carries the key itself in the host, so only its scheme survives.
func redactKeyURI(u *url.URL) string {
	switch {
	case u == nil:
		return "<unparsable>"
	case u.Scheme == "":
		return "<no scheme>"
	case u.Scheme == "base64key":
		return "base64key://..."
	default:
		return u.Scheme + "://" + u.Host
	}
}
