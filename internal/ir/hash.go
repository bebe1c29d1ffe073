package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows the algorithm to change later.
const (
	DomainCatalog  = "enigma/catalog/v1"
	DomainSettings = "enigma/settings/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data). The null byte
// keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CatalogID computes the fingerprint of a catalog. Equal machines loaded
// from different formats share an ID.
func CatalogID(c *Catalog) (string, error) {
	canonical, err := MarshalCanonical(c.Value())
	if err != nil {
		return "", fmt.Errorf("CatalogID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCatalog, canonical), nil
}

// SettingsID computes the fingerprint of a settings line.
func SettingsID(s *Settings) (string, error) {
	canonical, err := MarshalCanonical(s.Value())
	if err != nil {
		return "", fmt.Errorf("SettingsID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSettings, canonical), nil
}

// MustCatalogID is like CatalogID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCatalogID(c *Catalog) string {
	id, err := CatalogID(c)
	if err != nil {
		panic(err)
	}
	return id
}
