package service

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateSubdomainAcceptsLabels(t *testing.T) {
	for _, subdomain := range []string{"acme", "my-shop", "shop42", "a1b"} {
		if err := ValidateSubdomain(subdomain); err != nil {
			t.Fatalf("subdomain %q rejected: %v", subdomain, err)
		}
	}
}

func TestValidateSubdomainRejectsMalformed(t *testing.T) {
	cases := []string{
		"ab",
		"-leading",
		"trailing-",
		"UPPER",
		"has space",
		"has.dot",
		"under_score",
		strings.Repeat("a", 64),
	}
	for _, subdomain := range cases {
		if err := ValidateSubdomain(subdomain); !errors.Is(err, ErrSubdomainInvalid) {
			t.Fatalf("subdomain %q want ErrSubdomainInvalid got %v", subdomain, err)
		}
	}
}

func TestValidateSubdomainRejectsReserved(t *testing.T) {
	for _, subdomain := range []string{"www", "api", "admin", "storeflow"} {
		if err := ValidateSubdomain(subdomain); !errors.Is(err, ErrSubdomainReserved) {
			t.Fatalf("subdomain %q want ErrSubdomainReserved got %v", subdomain, err)
		}
	}
}

func TestNormalizeSubdomain(t *testing.T) {
	if got := NormalizeSubdomain("  Acme-Shop  "); got != "acme-shop" {
		t.Fatalf("normalize want acme-shop got %q", got)
	}
}
