package srt

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeBytes returns raw as UTF-8 text. Input that is not valid UTF-8
// is reinterpreted as Latin-1, which accepts any byte sequence, so
// legacy single-byte subtitle files still load.
func DecodeBytes(raw []byte) ([]byte, error) {
	if utf8.Valid(raw) {
		return raw, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode subtitle bytes: %w", err)
	}
	return decoded, nil
}
