package utils

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Legacy encodings seen in descriptions copied from Chinese, Korean and Japanese sites.
var legacyEncodings = []encoding.Encoding{
	simplifiedchinese.GB18030,
	korean.EUCKR,
	japanese.ShiftJIS,
}

// decodeToUTF8 attempts to decode arbitrary text bytes to UTF-8.
// It supports:
// - UTF-8 (with or without BOM)
// - UTF-16 LE/BE with BOM
// - GB18030, EUC-KR and Shift-JIS as fallbacks
func decodeToUTF8(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if bytes.HasPrefix(data, []byte{0xFE, 0xFF}) || bytes.HasPrefix(data, []byte{0xFF, 0xFE}) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		b, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), dec))
		if err != nil {
			return "", fmt.Errorf("decode utf-16: %w", err)
		}
		return string(b), nil
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, enc := range legacyEncodings {
		b, err := enc.NewDecoder().Bytes(data)
		if err == nil && utf8.Valid(b) {
			return string(b), nil
		}
	}

	return "", fmt.Errorf("unrecognized text encoding")
}

// ReadTextFile reads a description or notes file in any of the supported encodings
// and returns it as UTF-8 with "\n" line endings.
func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	decoded, err := decodeToUTF8(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	normalized := strings.ReplaceAll(decoded, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.TrimSpace(normalized), nil
}
