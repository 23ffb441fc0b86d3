package security

import (
	"crypto/rand"
	"fmt"

	"github.com/lodgelink/lodgelink-backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

var tempPasswordCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

const (
	minBcryptCost = 10
	maxBcryptCost = 14
)

// HashPassword returns a bcrypt hash for the provided password using the
// configured work factor.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), clampCost(cfg.BcryptCost))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored hash. The
// legacy collections contain credential hashes that are not bcrypt strings at
// all (one migration left serialized objects behind); any hash that cannot be
// interpreted fails verification rather than failing the login flow.
func VerifyPassword(password, encoded string) bool {
	if password == "" || encoded == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

func clampCost(cost int) int {
	if cost < minBcryptCost {
		return minBcryptCost
	}
	if cost > maxBcryptCost {
		return maxBcryptCost
	}
	return cost
}

// GenerateTempPassword produces a random string suitable for provisioning
// temporary credentials.
func GenerateTempPassword(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	result := make([]rune, length)
	for i := 0; i < length; i++ {
		idx, err := randInt(len(tempPasswordCharset))
		if err != nil {
			return "", err
		}
		result[i] = tempPasswordCharset[idx]
	}
	return string(result), nil
}

// randInt draws a uniform value in [0, max). Bytes above the largest
// multiple of max are redrawn so no charset index is favored.
func randInt(max int) (int, error) {
	if max <= 0 || max > 256 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	limit := 256 - 256%max
	buff := make([]byte, 1)
	for {
		if _, err := rand.Read(buff); err != nil {
			return 0, err
		}
		if int(buff[0]) < limit {
			return int(buff[0]) % max, nil
		}
	}
}
