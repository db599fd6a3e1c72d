// Package guest issues device sessions for anonymous shoppers. The device id
// keys the local store slots until the shopper signs in and the merge engine
// sweeps them server-side.
package guest

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"seesaw/internal/domain"
	tokenrepo "seesaw/internal/repository/token"
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	tokens tokenrepo.Repository
	ttl    time.Duration
}

func New(tokens tokenrepo.Repository) *Service {
	return &Service{
		tokens: tokens,
		ttl:    30 * 24 * time.Hour,
	}
}

// Issue creates a fresh device id and a bearer token that resolves to it.
func (s *Service) Issue(ctx context.Context) (token, deviceID string, err error) {
	deviceID, err = randomID()
	if err != nil {
		return "", "", err
	}
	for i := 0; i < 5; i++ {
		token, err = randomToken()
		if err != nil {
			return "", "", err
		}
		device := deviceID
		err = s.tokens.Create(ctx, tokenrepo.Token{
			Token:     token,
			DeviceID:  &device,
			Kind:      "device",
			ExpiresAt: time.Now().Add(s.ttl),
		})
		if err == nil {
			return token, deviceID, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", "", err
	}
	return "", "", errors.New("token collision")
}

// Lookup resolves a device token to its device id.
func (s *Service) Lookup(ctx context.Context, token string) (string, error) {
	meta, err := s.tokens.Get(ctx, token)
	if err != nil {
		return "", ErrInvalidToken
	}
	if meta.Kind != "device" || meta.DeviceID == nil {
		return "", ErrInvalidToken
	}
	if time.Now().After(meta.ExpiresAt) {
		_ = s.tokens.Delete(ctx, token)
		return "", ErrInvalidToken
	}
	return *meta.DeviceID, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	// UUID v4 (random).
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		b[0], b[1], b[2], b[3],
		b[4], b[5],
		b[6], b[7],
		b[8], b[9],
		b[10], b[11], b[12], b[13], b[14], b[15],
	), nil
}
