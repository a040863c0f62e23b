package service

import (
	"fmt"
	"unicode"

	"github.com/storeflow/storeflow/internal/config"
)

type passwordPolicyError struct {
	reason string
}

func (e passwordPolicyError) Error() string {
	return fmt.Sprintf("password does not meet policy: %s", e.reason)
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength <= 0 &&
		!policy.RequireUpper &&
		!policy.RequireLower &&
		!policy.RequireNumber &&
		!policy.RequireSpecial {
		return nil
	}

	if policy.MinLength > 0 {
		if len([]rune(password)) < policy.MinLength {
			return passwordPolicyError{reason: fmt.Sprintf("minimum length %d", policy.MinLength)}
		}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		return passwordPolicyError{reason: "uppercase letter required"}
	}
	if policy.RequireLower && !hasLower {
		return passwordPolicyError{reason: "lowercase letter required"}
	}
	if policy.RequireNumber && !hasNumber {
		return passwordPolicyError{reason: "digit required"}
	}
	if policy.RequireSpecial && !hasSpecial {
		return passwordPolicyError{reason: "special character required"}
	}

	return nil
}
