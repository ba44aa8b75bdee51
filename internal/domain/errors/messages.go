package errors

// Mensagens genéricas exibidas quando o backend não envia o campo "error".
const (
	FallbackListNotices    = "Erro ao carregar editais"
	FallbackListCategories = "Erro ao carregar categorias"
	FallbackListSources    = "Erro ao carregar fontes"
	FallbackCreateSource   = "Erro ao adicionar fonte"
	FallbackUpdateSource   = "Erro ao atualizar fonte"
	FallbackDeleteSource   = "Erro ao excluir fonte"
	FallbackPreview        = "Erro ao carregar preview"
	FallbackUpdateFeeds    = "Erro ao atualizar feeds. Tente novamente."
	FallbackClearCache     = "Erro ao limpar cache. Tente novamente."
)
