package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// HashInput отпечаток произвольного значения через его JSON-представление.
// encoding/json сортирует ключи map, поэтому результат детерминирован.
func HashInput(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash input: %w", err)
	}
	return QuickHash(data), nil
}

// QuickHash sha256 в hex
func QuickHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ShortHash первые 8 байт sha256 (16 символов)
func ShortHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// BuildKey собирает ключ вида "kind:part1:part2"
func BuildKey(kind string, parts ...string) string {
	if len(parts) == 0 {
		return kind
	}
	return kind + ":" + strings.Join(parts, ":")
}
