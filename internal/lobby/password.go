package lobby

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost for room passwords. Tests lower it.
var PasswordCost = bcrypt.DefaultCost

// SetPassword locks the lobby behind pw. An empty pw opens it again.
func (l *Lobby) SetPassword(pw string) error {
	if pw == "" {
		l.password = nil
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), PasswordCost)
	if err != nil {
		return fmt.Errorf("hash room password: %w", err)
	}
	l.password = hash
	return nil
}

func (l *Lobby) Locked() bool { return l.password != nil }

// CheckPassword 校验加入密码
func (l *Lobby) CheckPassword(pw string) error {
	if l.password == nil {
		return nil
	}
	err := bcrypt.CompareHashAndPassword(l.password, []byte(pw))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrWrongPassword
	}
	return err
}
