package service

import (
	"strings"

	"github.com/storeflow/storeflow/internal/constants"
)

// NormalizeSubdomain lowercases and trims a requested subdomain.
func NormalizeSubdomain(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidateSubdomain checks a normalized subdomain against the DNS label
// rules and the reserved list.
func ValidateSubdomain(subdomain string) error {
	length := len(subdomain)
	if length < constants.SubdomainMinLength || length > constants.SubdomainMaxLength {
		return ErrSubdomainInvalid
	}
	if subdomain[0] == '-' || subdomain[length-1] == '-' {
		return ErrSubdomainInvalid
	}
	for i := 0; i < length; i++ {
		c := subdomain[i]
		if c >= 'a' && c <= 'z' {
			continue
		}
		if c >= '0' && c <= '9' {
			continue
		}
		if c == '-' {
			continue
		}
		return ErrSubdomainInvalid
	}
	for _, reserved := range constants.ReservedSubdomains {
		if subdomain == reserved {
			return ErrSubdomainReserved
		}
	}
	return nil
}
