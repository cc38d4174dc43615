package helpers

import "golang.org/x/crypto/bcrypt"

// passwordHashCost is the bcrypt work factor for stored credentials. Raising
// it only affects new hashes; existing ones keep the cost they were minted
// with and still verify.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword returns a bcrypt hash of the plain text password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the stored bcrypt hash.
func CompareHashAndPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
