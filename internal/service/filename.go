package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// allowedExts 업로드 허용 확장자. 목록 밖의 확장자는 .jpg로 강제한다.
var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".heic": true,
	".heif": true,
}

const maxBaseLength = 80

// BuildFilename turns a user-supplied original filename into a safe,
// collision-resistant storage name: <unix-millis>-<6 random>-<base><ext>,
// lower-cased, with the base sanitized to [a-z0-9._-]. It never fails and
// never returns an empty string.
func BuildFilename(originalName string) string {
	extCandidate := strings.ToLower(filepath.Ext(originalName))
	ext := ".jpg"
	if allowedExts[extCandidate] {
		ext = extCandidate
	}

	base := sanitizeFilename(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
	prefix := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), randomSuffix())

	return strings.ToLower(fmt.Sprintf("%s-%s%s", prefix, base, ext))
}

// randomSuffix returns six random hex characters.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
}

// sanitizeFilename strips diacritics, replaces anything outside
// [A-Za-z0-9._-] with underscores, collapses runs, trims the edges and
// truncates to 80 characters. An empty result becomes "upload".
func sanitizeFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining marks left over from NFKD decomposition
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	out = strings.Trim(out, "_")
	if len(out) > maxBaseLength {
		out = out[:maxBaseLength]
	}
	if out == "" {
		return "upload"
	}
	return out
}
