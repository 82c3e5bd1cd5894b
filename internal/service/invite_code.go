package service

import (
	"crypto/rand"
	"fmt"
)

const (
	inviteCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	inviteCodeLength   = 8
)

// generateInviteCode draws every character independently from a 32-symbol
// alphabet without 0, 1, I or O. 256 is a multiple of 32 so byte%32 is uniform.
func generateInviteCode() (string, error) {
	raw := make([]byte, inviteCodeLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	code := make([]byte, inviteCodeLength)
	for i, b := range raw {
		code[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(code), nil
}
