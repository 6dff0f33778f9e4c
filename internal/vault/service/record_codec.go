package service

import (
	"encoding/base64"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/keychain/internal/crypto/domain"
	vaultDomain "github.com/allisson/keychain/internal/vault/domain"
)

// RecordCodec writes records as "v1:<algorithm>:<key-id>:<base64 ciphertext>".
//
// The key ID may itself contain ':' because the payload is located by the last separator;
// standard base64 never produces one.
type RecordCodec struct{}

// NewRecordCodec creates a RecordCodec.
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// EncodeBytes returns the standard base64 form of b.
func (c *RecordCodec) EncodeBytes(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBytes reverses EncodeBytes.
func (c *RecordCodec) DecodeBytes(text string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vaultDomain.ErrMalformedRecord, err)
	}
	return b, nil
}

// Encode implements Codec.
func (c *RecordCodec) Encode(record *vaultDomain.EncryptedRecord) string {
	return strings.Join([]string{
		vaultDomain.RecordVersion,
		string(record.Algorithm),
		record.KeyID,
		c.EncodeBytes(record.Ciphertext),
	}, ":")
}

// Decode implements Codec.
func (c *RecordCodec) Decode(text string) (*vaultDomain.EncryptedRecord, error) {
	rest, ok := strings.CutPrefix(text, vaultDomain.RecordVersion+":")
	if !ok {
		return nil, fmt.Errorf("%w: unknown record version", vaultDomain.ErrMalformedRecord)
	}

	alg, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, fmt.Errorf("%w: missing algorithm", vaultDomain.ErrMalformedRecord)
	}
	algorithm, err := cryptoDomain.ParseAlgorithm(alg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vaultDomain.ErrMalformedRecord, err)
	}

	sep := strings.LastIndexByte(rest, ':')
	if sep <= 0 {
		return nil, fmt.Errorf("%w: missing key id", vaultDomain.ErrMalformedRecord)
	}

	ciphertext, err := c.DecodeBytes(rest[sep+1:])
	if err != nil {
		return nil, err
	}

	return &vaultDomain.EncryptedRecord{
		Algorithm:  algorithm,
		KeyID:      rest[:sep],
		Ciphertext: ciphertext,
	}, nil
}
