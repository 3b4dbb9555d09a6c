package security

import (
	"errors"
	"testing"
)

func TestMinLengthRule(t *testing.T) {
	rule := MinLengthRule(8)

	if err := rule.Validate("short"); err == nil {
		t.Fatal("expected violation for short password")
	}

	if err := rule.Validate("long enough"); err != nil {
		t.Fatalf("unexpected violation: %v", err)
	}
}

func TestDefaultPasswordValidatorRejectsWeakValues(t *testing.T) {
	v := DefaultPasswordValidator()

	cases := []string{"", "short", "12345678", "password"}
	for _, password := range cases {
		err := v.Validate(password)
		if err == nil {
			t.Fatalf("expected violation for %q", password)
		}

		var violation *PasswordValidationError
		if !errors.As(err, &violation) {
			t.Fatalf("expected PasswordValidationError, got %T", err)
		}
	}
}

func TestDefaultPasswordValidatorAcceptsReasonableValue(t *testing.T) {
	v := DefaultPasswordValidator()

	if err := v.Validate("tr4vel-M0nkey-lamp"); err != nil {
		t.Fatalf("unexpected violation: %v", err)
	}
}

func TestPasswordStrengthRuleUsesUserInputs(t *testing.T) {
	rule := RequirePasswordStrengthRule(3, "johndoe", "john@example.com")

	if err := rule.Validate("johndoe123"); err == nil {
		t.Fatal("expected violation when password derives from user inputs")
	}
}
