package models

import (
	"strings"
	"time"

	"github.com/cultura-alerta/go-editais/internal/domain/errors"
)

type SourceType string

const (
	SourceTypeWeb SourceType = "web"
	SourceTypeRSS SourceType = "rss"
)

func ParseSourceType(raw string) (SourceType, error) {
	switch SourceType(strings.ToLower(strings.TrimSpace(raw))) {
	case SourceTypeWeb:
		return SourceTypeWeb, nil
	case SourceTypeRSS:
		return SourceTypeRSS, nil
	default:
		return "", &errors.ErrInvalidValue{FieldName: "type", Value: raw}
	}
}

type Source struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	Type       SourceType `json:"type"`
	Active     bool       `json:"active"`
	LastScrape *time.Time `json:"last_scrape"`
}

// SourceInput é o corpo de criação: {name, url, type}.
type SourceInput struct {
	Name string     `json:"name"`
	URL  string     `json:"url"`
	Type SourceType `json:"type"`
}

// SourcePatch carrega apenas os campos alterados.
type SourcePatch struct {
	Name   *string     `json:"name,omitempty"`
	URL    *string     `json:"url,omitempty"`
	Type   *SourceType `json:"type,omitempty"`
	Active *bool       `json:"active,omitempty"`
}

func (p *SourcePatch) IsEmpty() bool {
	return p.Name == nil && p.URL == nil && p.Type == nil && p.Active == nil
}
