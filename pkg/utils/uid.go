package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var uidSpace = big.NewInt(1_000_000)

// NewUID 随机 6 位数字（可能碰撞，调用方负责查重）
func NewUID() (string, error) {
	n, err := rand.Int(rand.Reader, uidSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
