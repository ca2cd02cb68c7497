package helpers

import "golang.org/x/crypto/bcrypt"

// Stored hashes carry their own cost, so raising this later only
// affects newly set passwords.
const bcryptCost = bcrypt.DefaultCost

// HashPassword derives a bcrypt hash for storage in users.encrypted_password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the stored hash.
func CompareHashAndPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
