package auth

import "golang.org/x/crypto/bcrypt"

// Hasher определяет контракт для хеширования паролей и биометрических токенов
type Hasher interface {
	Hash(raw string) (string, error)
	Compare(hash, raw string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher создает bcrypt-хешер с заданной стоимостью
func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Compare(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
