package validator

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"bob.smith@agency.co.uk",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("Expected %q to validate, got %v", email, err)
		}
	}

	invalid := []string{
		"",
		"not-an-email",
		"missing@domain",
		"@example.com",
		"spaces in@example.com",
	}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("Expected %q to fail validation", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"Abcdef12", true},
		{"Str0ngPassword", true},
		{"abc123", false},     // too short, no uppercase
		{"abcdefgh", false},   // no uppercase, no digit
		{"ABCDEFG1", false},   // no lowercase
		{"Abcdefgh", false},   // no digit
		{"Abc1", false},       // too short
		{"", false},
	}

	for _, tc := range cases {
		err := ValidatePassword(tc.password)
		if tc.valid && err != nil {
			t.Errorf("Expected %q to validate, got %v", tc.password, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("Expected %q to fail validation", tc.password)
		}
	}
}
