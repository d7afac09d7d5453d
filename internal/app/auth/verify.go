package auth

import (
	"context"
	"errors"
	"strings"

	"forager/internal/app/ports"
)

type VerifyRequest struct {
	PlayerID  string
	PlayerKey string
}

// VerifyUseCase checks the X-Player-ID / X-Player-Key pair sent with every game request. Unknown
// players, revoked credentials and wrong keys all report ErrInvalidCredentials.
type VerifyUseCase struct {
	Credentials ports.PlayerCredentialRepository
}

func (u VerifyUseCase) Execute(ctx context.Context, req VerifyRequest) error {
	playerID := strings.TrimSpace(req.PlayerID)
	key := strings.TrimSpace(req.PlayerKey)
	if playerID == "" || key == "" || u.Credentials == nil {
		return ErrInvalidRequest
	}

	rec, err := u.Credentials.GetByPlayerID(ctx, playerID)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return ErrInvalidCredentials
	case err != nil:
		return err
	}
	if rec.Status != CredentialStatusActive || !storedDigest(rec).matches(key) {
		return ErrInvalidCredentials
	}
	return nil
}
