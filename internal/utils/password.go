package utils

import "golang.org/x/crypto/bcrypt"

// bcryptCost balances login latency against brute-force resistance. Raising
// it invalidates no existing hashes; bcrypt stores the cost in the hash.
const bcryptCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of a plaintext password. bcrypt only
// considers the first 72 bytes of input.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the plaintext password matches the hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
