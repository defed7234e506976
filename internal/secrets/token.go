// Package secrets seals and opens the Scalingo API token with age encryption,
// so the token can be kept in configuration as an armored ciphertext.
package secrets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
)

var (
	// ErrNoRecipient is returned when sealing without a recipient.
	ErrNoRecipient = errors.New("no recipient configured for encryption")
	// ErrNoIdentity is returned when opening without an identity.
	ErrNoIdentity = errors.New("no identity configured for decryption")
	// ErrDecryptionFailed is returned when decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed")
	// ErrEncryptionFailed is returned when encryption fails.
	ErrEncryptionFailed = errors.New("encryption failed")
	// ErrInvalidKey is returned when a key is invalid.
	ErrInvalidKey = errors.New("invalid key format")
	// ErrEmptyToken is returned when the decrypted token is blank.
	ErrEmptyToken = errors.New("decrypted token is empty")
)

// Vault seals tokens for a recipient and opens them with an identity.
// Either side may be left unconfigured.
type Vault struct {
	recipient *age.X25519Recipient // age1...
	identity  *age.X25519Identity  // AGE-SECRET-KEY-1...
	logger    *slog.Logger
}

// NewVault parses the given keys. Empty keys leave that side unconfigured.
func NewVault(recipient, identity string, logger *slog.Logger) (*Vault, error) {
	if logger == nil {
		logger = slog.Default()
	}

	v := &Vault{logger: logger}

	if recipient != "" {
		r, err := age.ParseX25519Recipient(strings.TrimSpace(recipient))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid recipient: %v", ErrInvalidKey, err)
		}
		v.recipient = r
	}

	if identity != "" {
		id, err := age.ParseX25519Identity(strings.TrimSpace(identity))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid identity: %v", ErrInvalidKey, err)
		}
		v.identity = id
	}

	return v, nil
}

// Seal encrypts token and returns it ASCII-armored.
func (v *Vault) Seal(token string) (string, error) {
	if v.recipient == nil {
		return "", ErrNoRecipient
	}

	var buf bytes.Buffer
	aw := armor.NewWriter(&buf)

	w, err := age.Encrypt(aw, v.recipient)
	if err != nil {
		v.logger.Error("failed to create age encryptor", "error", err)
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	if _, err := io.WriteString(w, token); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	if err := aw.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	return buf.String(), nil
}

// Open decrypts an armored token produced by Seal (or by the age CLI with -a).
// Surrounding whitespace in the plaintext is removed.
func (v *Vault) Open(armored string) (string, error) {
	if v.identity == nil {
		return "", ErrNoIdentity
	}

	r, err := age.Decrypt(armor.NewReader(strings.NewReader(strings.TrimSpace(armored))), v.identity)
	if err != nil {
		v.logger.Error("failed to create age decryptor", "error", err)
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		v.logger.Error("failed to read decrypted token", "error", err)
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	token := strings.TrimSpace(string(plaintext))
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

// CanSeal returns true if the vault is configured for encryption.
func (v *Vault) CanSeal() bool {
	return v.recipient != nil
}

// CanOpen returns true if the vault is configured for decryption.
func (v *Vault) CanOpen() bool {
	return v.identity != nil
}

// GenerateKeyPair generates a new age key pair.
// Returns the recipient (for sealing) and identity (for opening).
func GenerateKeyPair() (recipient, identity string, err error) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate age key pair: %w", err)
	}
	return id.Recipient().String(), id.String(), nil
}

// ResolveAPIToken returns plain when set, otherwise opens sealed with identity.
func ResolveAPIToken(plain, sealed, identity string, logger *slog.Logger) (string, error) {
	if plain != "" {
		return plain, nil
	}
	v, err := NewVault("", identity, logger)
	if err != nil {
		return "", err
	}
	token, err := v.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("opening sealed API token: %w", err)
	}
	return token, nil
}
