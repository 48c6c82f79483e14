package auth

import "fmt"

// PasswordPolicy is the pluggable complexity predicate applied at
// registration. Defaults mirror the store's original settings: length and
// character classes, non-alphanumeric not required.
type PasswordPolicy struct {
	MinLength              int
	RequireUppercase       bool
	RequireLowercase       bool
	RequireDigit           bool
	RequireNonAlphanumeric bool
}

func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:              6,
		RequireUppercase:       true,
		RequireLowercase:       true,
		RequireDigit:           true,
		RequireNonAlphanumeric: false,
	}
}

// Validate returns the ordered list of violations, empty when the password
// passes.
func (p PasswordPolicy) Validate(password string) []string {
	var errs []string

	if len(password) < p.MinLength {
		errs = append(errs, fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength))
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if p.RequireUppercase && !hasUpper {
		errs = append(errs, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	if p.RequireLowercase && !hasLower {
		errs = append(errs, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if p.RequireDigit && !hasDigit {
		errs = append(errs, "Passwords must have at least one digit ('0'-'9').")
	}
	if p.RequireNonAlphanumeric && !hasSymbol {
		errs = append(errs, "Passwords must have at least one non alphanumeric character.")
	}

	return errs
}
