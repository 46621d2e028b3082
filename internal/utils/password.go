package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes a signup or seed password with the
// configured cost.  The hash is what gets stored; the plain text is
// never persisted.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash.  Used
// by login; a mismatch surfaces as invalid credentials, never as a
// more specific error.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
