package validation

import (
	"path"
	"strings"
	"unicode"
)

const maxFilenameLength = 255

// SanitizeFilename reduces a client-supplied file name to a safe base name:
// directory parts, control characters and Windows-reserved symbols are
// dropped. An unusable name becomes fallback.
func SanitizeFilename(filename, fallback string) string {
	// Клиенты на Windows присылают полный путь с обратными слэшами
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`<>:"|?*`, r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." || name == "/" || strings.Trim(name, ".") == "" {
		return fallback
	}

	if len(name) > maxFilenameLength {
		ext := path.Ext(name)
		if len(ext) >= maxFilenameLength {
			ext = ""
		}
		name = truncateBytes(name, maxFilenameLength-len(ext)) + ext
	}
	return name
}

// truncateBytes обрезает строку до n байт, не разрывая UTF-8 последовательность
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
