// Package idgen allocates match identifiers from the persisted nonce.
package idgen

import (
	"fmt"
	"strconv"

	"connect-four/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	size     = 12
)

// NanoID produces random ids suffixed with the base-36 nonce, so two ids
// never collide even if the random part does.
type NanoID struct{}

func NewNanoID() *NanoID {
	return &NanoID{}
}

func (NanoID) NewMatchID(nonce uint64) (domain.MatchID, error) {
	id, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("failed to generate nanoid: %w", err)
	}
	return domain.MatchID(id + "-" + strconv.FormatUint(nonce, 36)), nil
}

// Sequence produces predictable ids ("match-1", "match-2", ...).
type Sequence struct {
	Prefix string
}

func NewSequence() *Sequence {
	return &Sequence{Prefix: "match-"}
}

func (s *Sequence) NewMatchID(nonce uint64) (domain.MatchID, error) {
	return domain.MatchID(s.Prefix + strconv.FormatUint(nonce, 10)), nil
}
