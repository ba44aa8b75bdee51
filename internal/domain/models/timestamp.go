package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/cultura-alerta/go-editais/internal/domain/errors"
)

// O backend serializa datas com isoformat(), quase sempre sem fuso; nesse caso vale UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &errors.ErrInvalidValue{FieldName: "timestamp", Value: raw}
}

func parseOptionalTimestamp(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	t, err := ParseTimestamp(*raw)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (n *Notice) UnmarshalJSON(data []byte) error {
	type noticeAlias Notice

	aux := struct {
		*noticeAlias
		DataPublicacao *string `json:"data_publicacao"`
		DataVencimento *string `json:"data_vencimento"`
	}{
		noticeAlias: (*noticeAlias)(n),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	published, err := parseOptionalTimestamp(aux.DataPublicacao)
	if err != nil {
		return err
	}

	if published != nil {
		n.DataPublicacao = *published
	}

	n.DataVencimento, err = parseOptionalTimestamp(aux.DataVencimento)

	return err
}

func (s *Source) UnmarshalJSON(data []byte) error {
	type sourceAlias Source

	aux := struct {
		*sourceAlias
		LastScrape *string `json:"last_scrape"`
	}{
		sourceAlias: (*sourceAlias)(s),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error

	s.LastScrape, err = parseOptionalTimestamp(aux.LastScrape)

	return err
}
