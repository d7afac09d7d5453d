package auth

import (
	"context"
	"errors"
	"time"

	"forager/internal/app/ports"
	"forager/internal/app/shared/token"
)

// registerAttempts bounds retries when a generated player id collides.
const registerAttempts = 3

type RegisterRequest struct{}

type RegisterResponse struct {
	PlayerID  string `json:"player_id"`
	PlayerKey string `json:"player_key"`
	IssuedAt  string `json:"issued_at"`
}

type RegisterUseCase struct {
	Credentials ports.PlayerCredentialRepository
	TxManager   ports.TxManager
	Now         func() time.Time
}

func (u RegisterUseCase) Execute(ctx context.Context, _ RegisterRequest) (RegisterResponse, error) {
	if u.Credentials == nil || u.TxManager == nil {
		return RegisterResponse{}, ErrInvalidRequest
	}
	now := time.Now().UTC()
	if u.Now != nil {
		now = u.Now().UTC()
	}
	idFor := func() (string, error) { return token.NewID(playerIDPrefix, now) }

	for attempt := 0; attempt < registerAttempts; attempt++ {
		cred, err := issue(idFor)
		if err != nil {
			return RegisterResponse{}, err
		}
		err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			return u.Credentials.Create(txCtx, ports.PlayerCredentialRecord{
				PlayerID:  cred.playerID,
				KeySalt:   cred.digest.salt,
				KeyHash:   cred.digest.hash,
				Status:    CredentialStatusActive,
				CreatedAt: now,
			})
		})
		switch {
		case errors.Is(err, ports.ErrConflict):
			continue
		case err != nil:
			return RegisterResponse{}, err
		}
		return RegisterResponse{
			PlayerID:  cred.playerID,
			PlayerKey: cred.key,
			IssuedAt:  now.Format(time.RFC3339),
		}, nil
	}
	return RegisterResponse{}, ports.ErrConflict
}
