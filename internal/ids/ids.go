package ids

import (
	"crypto/rand"
	"math/big"
)

const (
	idLength = 9
	idChars  = "abcdefghijklmnopqrstuvwxyz1234567890"
)

// NewID generates a short random identifier used for room and user IDs.
// It is not globally unique by construction; callers check for collisions.
func NewID() string {
	id := make([]byte, idLength)
	for i := range id {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(idChars))))
		id[i] = idChars[n.Int64()]
	}
	return string(id)
}
