// Package auth issues and reads the signed tokens that carry a board between requests.
package auth

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/adamtheturtle/boggle-solver/game/board"
	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type (
	// Tokenizer creates and reads board tokens.
	Tokenizer struct {
		method jwt.SigningMethod
		key    interface{}
		TokenizerConfig
	}

	// TokenizerConfig contains fields which describe a Tokenizer.
	TokenizerConfig struct {
		// TimeFunc is a function which should supply the current time since the unix epoch.
		// Used to set the the length of time the token is valid.
		TimeFunc func() int64
		// ValidSec is the length of time the token is valid from the issuing time, in seconds.
		ValidSec int64
	}

	boardClaims struct {
		Rows board.Grid `json:"rows"`
		jwt.RegisteredClaims
	}
)

// KeyLength is the number of random bytes used to sign tokens.
const KeyLength = 64

// ErrInvalidToken is wrapped by errors for tokens that are malformed, expired, or signed by another key.
var ErrInvalidToken = errors.New("invalid token")

// GenerateKey reads a new signing key from the random source.
func GenerateKey(r io.Reader) ([]byte, error) {
	key := make([]byte, KeyLength)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("generating token key: %w", err)
	}
	return key, nil
}

// NewTokenizer creates a Tokenizer that signs tokens with the key.
func (cfg TokenizerConfig) NewTokenizer(key []byte) (*Tokenizer, error) {
	if err := cfg.validate(key); err != nil {
		return nil, fmt.Errorf("creating tokenizer: validation: %w", err)
	}
	t := Tokenizer{
		method:          jwt.SigningMethodHS256,
		key:             key,
		TokenizerConfig: cfg,
	}
	return &t, nil
}

// validate ensures the configuration has no errors.
func (cfg TokenizerConfig) validate(key []byte) error {
	switch {
	case len(key) == 0:
		return fmt.Errorf("key required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.ValidSec <= 0:
		return fmt.Errorf("positive valid seconds required")
	}
	return nil
}

// Create signs a token for the board.  Each token gets a unique id.
func (t Tokenizer) Create(g board.Grid) (string, error) {
	if err := g.Validate(); err != nil {
		return "", fmt.Errorf("creating token: %w", err)
	}
	now := t.TimeFunc()
	claims := boardClaims{
		Rows: g,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Unix(now, 0)),
			NotBefore: jwt.NewNumericDate(time.Unix(now, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(now+t.ValidSec, 0)),
		},
	}
	token := jwt.NewWithClaims(t.method, claims)
	return token.SignedString(t.key)
}

// ReadGrid extracts the board from the token string.
func (t Tokenizer) ReadGrid(tokenString string) (board.Grid, error) {
	var claims boardClaims
	p := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, err := p.ParseWithClaims(tokenString, &claims, t.keyFunc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	now := time.Unix(t.TimeFunc(), 0)
	switch {
	case !claims.VerifyNotBefore(now, true):
		return nil, fmt.Errorf("%w: not valid yet", ErrInvalidToken)
	case !claims.VerifyExpiresAt(now, true):
		return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	if err := claims.Rows.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.Rows, nil
}

// keyFunc ensures the key type (method) of the token is correct before returning the key.
func (t Tokenizer) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != t.method {
		return nil, fmt.Errorf("incorrect authorization signing method")
	}
	return t.key, nil
}
