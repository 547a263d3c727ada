package auth

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ConfirmationCodeLength is the number of characters in a generated code.
const ConfirmationCodeLength = 10

// GenerateConfirmationCode returns a random upper-case code taken from a v4 UUID.
func GenerateConfirmationCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:ConfirmationCodeLength])
}

// HashCode creates a bcrypt hash from the given plaintext confirmation code.
func HashCode(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// NormalizeCode puts a typed-in code into the generated form: trimmed, upper case.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// VerifyCode checks if the provided code matches the stored bcrypt hash.
// Case and surrounding whitespace of providedCode are ignored.
func VerifyCode(hashedCode, providedCode string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(NormalizeCode(providedCode)))
}
