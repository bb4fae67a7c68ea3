// Package codec はWindows-1252とUTF-8の相互変換を提供します
package codec

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// SubstituteByte はWindows-1252で表現できない文字の代わりに書き込むバイトです
const SubstituteByte byte = encoding.ASCIISub

// EncodeResult はエンコード結果を表します
type EncodeResult struct {
	Bytes []byte
	// Substitutions は代替バイトに置き換えた文字数を表します
	Substitutions int
	// Runes は代替バイトに置き換えた文字を重複なしで出現順に保持します
	Runes []rune
}

// Windows1252 はレガシーの1バイト西欧文字コードを扱うコーデックです
type Windows1252 struct {
	cm *charmap.Charmap
}

// NewWindows1252 は新しい Windows1252 コーデックを作成します
func NewWindows1252() *Windows1252 {
	return &Windows1252{cm: charmap.Windows1252}
}

// Decode はバイト列をUTF-8文字列に変換します。
// 全てのバイト値に文字が割り当てられているため、不正なバイト列による失敗はありません。
func (c *Windows1252) Decode(raw []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(raw))

	for _, b := range raw {
		if isUnassigned(rune(b)) {
			sb.WriteRune(rune(b))
			continue
		}
		sb.WriteRune(c.cm.DecodeByte(b))
	}
	return sb.String(), nil
}

// Encode は文字列をWindows-1252のバイト列に変換します。
// 表現できない文字は SubstituteByte に置き換え、その数を返します。
func (c *Windows1252) Encode(text string) EncodeResult {
	res := EncodeResult{Bytes: make([]byte, 0, len(text))}
	seen := make(map[rune]struct{})

	for _, r := range text {
		if b, ok := c.cm.EncodeRune(r); ok {
			res.Bytes = append(res.Bytes, b)
			continue
		}
		if isUnassigned(r) {
			res.Bytes = append(res.Bytes, byte(r))
			continue
		}

		res.Bytes = append(res.Bytes, SubstituteByte)
		res.Substitutions++
		if _, dup := seen[r]; !dup {
			seen[r] = struct{}{}
			res.Runes = append(res.Runes, r)
		}
	}

	return res
}

// isUnassigned は charmap が U+FFFD に変換する5つのバイト位置を判定します。
// これらは同じ値のC1制御文字として扱い、往復変換でバイト列を保ちます。
func isUnassigned(r rune) bool {
	switch r {
	case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
		return true
	}
	return false
}
