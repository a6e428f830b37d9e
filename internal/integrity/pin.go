package integrity

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/harborlight/dayroster/internal/kv"
)

// ErrWrongPIN rejects a reset attempt with a bad admin PIN.
var ErrWrongPIN = errors.New("incorrect admin PIN")

// SetAdminPIN stores a bcrypt hash of the PIN that gates Reset. An empty PIN
// removes the gate.
func (c *Checker) SetAdminPIN(pin string) error {
	if pin == "" {
		return c.store.Remove(kv.KeyAdminPINHash)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin pin: %w", err)
	}
	return c.store.Set(kv.KeyAdminPINHash, string(hash))
}

// VerifyAdminPIN checks the PIN against the stored hash. When no PIN is
// configured, any input passes.
func (c *Checker) VerifyAdminPIN(pin string) error {
	hash, ok, err := c.store.Get(kv.KeyAdminPINHash)
	if err != nil {
		return fmt.Errorf("read admin pin: %w", err)
	}
	if !ok {
		return nil
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) != nil {
		return ErrWrongPIN
	}
	return nil
}
