package core

import (
	"crypto/rand"
	"math/big"

	"github.com/dkeye/Doodle/internal/domain"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CodeGenerator produces candidate room codes. Uniqueness is the registry's job.
type CodeGenerator interface {
	Generate() (domain.RoomCode, error)
}

type RandomCodes struct{}

func (RandomCodes) Generate() (domain.RoomCode, error) {
	code := make([]byte, domain.RoomCodeLen)
	limit := big.NewInt(int64(len(codeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[n.Int64()]
	}
	return domain.RoomCode(code), nil
}
