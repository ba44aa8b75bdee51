package models

import (
	"time"
)

// Notice é um edital recebido do backend. Nunca é alterado localmente:
// cada refetch substitui o conjunto inteiro.
type Notice struct {
	ID             int64      `json:"id"`
	Nome           string     `json:"nome"`
	Link           string     `json:"link"`
	DataPublicacao time.Time  `json:"data_publicacao"`
	DataVencimento *time.Time `json:"data_vencimento"`
	Categoria      *string    `json:"categoria"`
	Descricao      *string    `json:"descricao"`
	Fonte          string     `json:"fonte"`
}

func (n *Notice) CategoriaValue() string {
	if n.Categoria == nil {
		return ""
	}

	return *n.Categoria
}

func (n *Notice) DescricaoValue() string {
	if n.Descricao == nil {
		return ""
	}

	return *n.Descricao
}

type DeadlineClass string

const (
	DeadlineNone    DeadlineClass = "none"
	DeadlineExpired DeadlineClass = "expired"
	DeadlineUrgent  DeadlineClass = "urgent"
	DeadlineOpen    DeadlineClass = "open"
)

const UrgentDeadlineDays = 7
