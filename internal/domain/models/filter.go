package models

import (
	"strconv"
	"strings"

	"github.com/cultura-alerta/go-editais/internal/domain/errors"
)

type DeadlineBucket int

const (
	BucketNone DeadlineBucket = 0
	Bucket7    DeadlineBucket = 7
	Bucket15   DeadlineBucket = 15
	Bucket30   DeadlineBucket = 30
)

func ParseDeadlineBucket(raw string) (DeadlineBucket, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return BucketNone, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		return BucketNone, &errors.ErrInvalidValue{FieldName: "prazo", Value: raw}
	}

	switch DeadlineBucket(days) {
	case Bucket7, Bucket15, Bucket30:
		return DeadlineBucket(days), nil
	default:
		return BucketNone, &errors.ErrInvalidValue{FieldName: "prazo", Value: raw}
	}
}

// CategoriaAll é o valor de seleção "todas as categorias".
const CategoriaAll = "all"

// FilterCriteria usa Bucket no modo local e DataInicio/DataFim no modo remoto, nunca os dois.
type FilterCriteria struct {
	Search     string
	Categoria  string
	Bucket     DeadlineBucket
	DataInicio string
	DataFim    string
}

func (c FilterCriteria) IsEmpty() bool {
	return c == FilterCriteria{}
}

func (c FilterCriteria) HasDateRange() bool {
	return c.DataInicio != "" || c.DataFim != ""
}

// EffectiveCategoria trata "all" como ausência de filtro.
func (c FilterCriteria) EffectiveCategoria() string {
	if strings.EqualFold(c.Categoria, CategoriaAll) {
		return ""
	}

	return c.Categoria
}

// QueryParams serializa os critérios do modo remoto; campos vazios são omitidos.
func (c FilterCriteria) QueryParams() map[string]string {
	params := make(map[string]string, 4)

	if categoria := c.EffectiveCategoria(); categoria != "" {
		params["categoria"] = categoria
	}

	if c.Search != "" {
		params["search"] = c.Search
	}

	if c.DataInicio != "" {
		params["data_inicio"] = c.DataInicio
	}

	if c.DataFim != "" {
		params["data_fim"] = c.DataFim
	}

	return params
}
