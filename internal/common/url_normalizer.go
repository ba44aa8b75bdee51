package common

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/cultura-alerta/go-editais/internal/domain/errors"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// NormalizeURL remove marcação colada junto com a URL, apara espaços e exige
// uma URL absoluta (esquema + autoridade). O conteúdo não é canonizado.
func NormalizeURL(raw string) (string, error) {
	cleaned := strings.TrimSpace(tagPattern.ReplaceAllString(raw, ""))

	parsed, err := url.Parse(cleaned)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &errors.ErrInvalidURL{URL: cleaned}
	}

	return cleaned, nil
}
