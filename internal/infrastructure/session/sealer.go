package session

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

// ErrSealedFile is returned when a sealed session file cannot be opened with the
// configured secret
var ErrSealedFile = errors.New("session file cannot be opened with the configured secret")

// Sealer encrypts the session file at rest with a key derived from a secret
type Sealer struct {
	secret []byte
}

// NewSealer returns nil when secret is empty, which leaves the file in plain JSON
func NewSealer(secret string) *Sealer {
	if secret == "" {
		return nil
	}
	return &Sealer{secret: []byte(secret)}
}

type sealedEnvelope struct {
	Version int    `json:"v"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Box     []byte `json:"box"`
}

func (s *Sealer) key(salt []byte) *[keySize]byte {
	var k [keySize]byte
	copy(k[:], argon2.IDKey(s.secret, salt, 1, 64*1024, 4, keySize))
	return &k
}

// Seal encrypts plain into a JSON envelope
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nil, plain, &nonce, s.key(salt))
	return json.Marshal(sealedEnvelope{Version: 1, Salt: salt, Nonce: nonce[:], Box: box})
}

// Open decrypts an envelope produced by Seal
func (s *Sealer) Open(data []byte) ([]byte, error) {
	var env sealedEnvelope
	if err := json.Unmarshal(data, &env); err != nil || env.Version != 1 || len(env.Nonce) != nonceSize {
		return nil, ErrSealedFile
	}
	var nonce [nonceSize]byte
	copy(nonce[:], env.Nonce)
	plain, ok := secretbox.Open(nil, env.Box, &nonce, s.key(env.Salt))
	if !ok {
		return nil, ErrSealedFile
	}
	return plain, nil
}
