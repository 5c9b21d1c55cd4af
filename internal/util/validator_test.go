package util

import (
	"strings"
	"testing"
)

func TestValidatePasswordStrength_Valid(t *testing.T) {
	testCases := []string{
		"ValidPass123",
		"Abcdefg1",
		"xXxXxX99",
		strings.Repeat("Aa1", 33) + "A", // 100 chars
	}

	for _, password := range testCases {
		if err := ValidatePasswordStrength(password); err != nil {
			t.Errorf("ValidatePasswordStrength(%q) error = %v, want nil", password, err)
		}
	}
}

// Length is counted in characters, not bytes: diacritics are one each.
func TestValidatePasswordStrength_CountsCharacters(t *testing.T) {
	// 7 characters but 10 bytes
	err := ValidatePasswordStrength("Abc1żżż")
	if err == nil || err.Error() != "Hasło musi mieć co najmniej 8 znaków." {
		t.Errorf("7-char diacritic password: got %v, want min-length message", err)
	}

	// 8 characters, 12 bytes
	if err := ValidatePasswordStrength("Abc1żżżł"); err != nil {
		t.Errorf("8-char diacritic password rejected: %v", err)
	}

	// 100 characters, well over 100 bytes
	long := "Abc1" + strings.Repeat("ż", 96)
	if err := ValidatePasswordStrength(long); err != nil {
		t.Errorf("100-char diacritic password rejected: %v", err)
	}
	if err := ValidatePasswordStrength(long + "ż"); err == nil {
		t.Error("101-char password accepted")
	}
}

func TestValidateUsername_CountsCharacters(t *testing.T) {
	if err := ValidateUsername(strings.Repeat("ż", 50)); err != nil {
		t.Errorf("50-char diacritic username rejected: %v", err)
	}
	if err := ValidateUsername(strings.Repeat("ż", 51)); err == nil {
		t.Error("51-char username accepted")
	}
}

func TestValidatePasswordStrength_TooShort(t *testing.T) {
	testCases := []string{"", "Aa1", "Abcdef1"}

	for _, password := range testCases {
		err := ValidatePasswordStrength(password)
		if err == nil {
			t.Errorf("ValidatePasswordStrength(%q) error = nil, want error", password)
			continue
		}
		if err.Error() != "Hasło musi mieć co najmniej 8 znaków." {
			t.Errorf("ValidatePasswordStrength(%q) = %q, want length message", password, err)
		}
	}
}

func TestValidatePasswordStrength_TooLong(t *testing.T) {
	password := strings.Repeat("Aa1", 34) // 102 chars
	err := ValidatePasswordStrength(password)
	if err == nil {
		t.Fatal("expected error for 102-char password")
	}
	if err.Error() != "Hasło nie może być dłuższe niż 100 znaków." {
		t.Errorf("got %q, want max-length message", err)
	}
}

func TestValidatePasswordStrength_MissingClasses(t *testing.T) {
	testCases := []struct {
		password string
		want     string
	}{
		{"alllower123", "Hasło musi zawierać co najmniej jedną dużą literę."},
		{"ALLUPPER123", "Hasło musi zawierać co najmniej jedną małą literę."},
		{"NoDigitsHere", "Hasło musi zawierać co najmniej jedną cyfrę."},
	}

	for _, tc := range testCases {
		err := ValidatePasswordStrength(tc.password)
		if err == nil {
			t.Errorf("ValidatePasswordStrength(%q) error = nil, want error", tc.password)
			continue
		}
		if err.Error() != tc.want {
			t.Errorf("ValidatePasswordStrength(%q) = %q, want %q", tc.password, err, tc.want)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	valid := []string{"ab", "jan_kowalski", strings.Repeat("a", 50)}
	for _, username := range valid {
		if err := ValidateUsername(username); err != nil {
			t.Errorf("ValidateUsername(%q) error = %v, want nil", username, err)
		}
	}

	invalid := []string{
		"",
		"a",
		strings.Repeat("a", 51),
		"jan kowalski",
		"jan@kowalski",
	}
	for _, username := range invalid {
		if err := ValidateUsername(username); err == nil {
			t.Errorf("ValidateUsername(%q) error = nil, want error", username)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"", "+48123456789", "123456789", "+123456789012345"}
	for _, phone := range valid {
		if err := ValidatePhone(phone); err != nil {
			t.Errorf("ValidatePhone(%q) error = %v, want nil", phone, err)
		}
	}

	invalid := []string{"12345678", "abc123456789", "+48 123 456 789", "12345678901234567"}
	for _, phone := range invalid {
		if err := ValidatePhone(phone); err == nil {
			t.Errorf("ValidatePhone(%q) error = nil, want error", phone)
		}
	}
}

func TestIsEmailIdentifier(t *testing.T) {
	testCases := []struct {
		identifier string
		want       bool
	}{
		{"jan@example.com", true},
		{"jan.kowalski@sub.example.com", true},
		{"jankowalski", false},
		{"jan@", false},
		{"@example.com", false},
		{"jan@example", false},
	}

	for _, tc := range testCases {
		if got := IsEmailIdentifier(tc.identifier); got != tc.want {
			t.Errorf("IsEmailIdentifier(%q) = %v, want %v", tc.identifier, got, tc.want)
		}
	}
}
