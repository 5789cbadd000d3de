package password

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// MinLength is the shortest credential accepted
	MinLength = 8
)

const dummyCredential = "dentlab-dummy-credential"

var (
	cost      = DefaultCost
	dummyHash []byte
)

func init() {
	SetCost(DefaultCost)
}

// SetCost changes the bcrypt cost used by Hash and rebuilds the dummy hash
// at the same cost. Not safe for concurrent use; tests lower it to bcrypt.MinCost.
func SetCost(c int) {
	h, err := bcrypt.GenerateFromPassword([]byte(dummyCredential), c)
	if err != nil {
		panic("password: " + err.Error())
	}
	cost = c
	dummyHash = h
}

// Hash hashes a password using bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash. An empty hash is compared
// against a dummy hash built at the current cost, so a missing account
// costs the same single bcrypt round as a wrong password.
func Verify(password, hash string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashToken hashes a token using SHA256 (for refresh tokens)
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// ValidatePassword checks if password meets requirements
func ValidatePassword(password string) bool {
	return len(password) >= MinLength
}
