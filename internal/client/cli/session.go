package cli

import (
	"context"

	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/dmitrijs2005/zkvault/internal/cryptox"
)

// passphraseSalt binds passphrase-derived keys to the session owner.
func passphraseSalt(owner string) []byte {
	return []byte("zkvault:" + owner)
}

// Unlock asks for the owner (unless a wallet provides it) and the session
// secret. "unlock passphrase" stretches the secret with Argon2id, plain
// "unlock" treats it as seed material.
func (a *App) Unlock(ctx context.Context, args []string) error {
	if a.owner == "" {
		owner, err := GetSimpleText(a.reader, "Owner (empty for a random one)", a.out)
		if err != nil {
			return err
		}
		if owner == "" {
			owner, err = common.MakeRandHexString(8)
			if err != nil {
				return err
			}
		}
		a.owner = owner
	}

	secret, err := GetSecret("Enter secret", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	km := cryptox.Seed(secret)
	if len(args) > 0 && args[0] == "passphrase" {
		km = cryptox.Passphrase(secret, passphraseSalt(a.owner))
	}
	key, err := cryptox.NormalizeKey(km)
	if err != nil {
		return err
	}

	a.wipeKey()
	a.key = append([]byte(nil), key...)
	a.logger.Info(ctx, "session unlocked", "owner", a.owner, "kind", km.Kind().String())
	return nil
}

func (a *App) Lock(ctx context.Context) error {
	a.wipeKey()
	clear(a.envelopes)
	a.logger.Info(ctx, "session locked")
	return nil
}

// Commit prints the commitment of a line of text.
func (a *App) Commit(ctx context.Context) error {
	text, err := GetSimpleText(a.reader, "Text to commit to", a.out)
	if err != nil {
		return err
	}
	a.printf("%s\n", cryptox.Commitment([]byte(text)))
	return nil
}
