package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrInvalidURL struct {
	URL string
}

func (e *ErrInvalidURL) Error() string {
	return "URL inválida: " + e.URL
}

func (e *ErrInvalidURL) Is(target error) bool {
	_, ok := target.(*ErrInvalidURL)
	return ok
}

// ErrValidation é a rejeição de entrada pelo backend (URL duplicada, feed inválido etc.).
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

func (e *ErrValidation) Is(target error) bool {
	_, ok := target.(*ErrValidation)
	return ok
}

type ErrNetwork struct {
	Op      string
	Message string
	Cause   error
}

func (e *ErrNetwork) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("erro de rede em %s: %s: %v", e.Op, e.Message, e.Cause)
	}

	return fmt.Sprintf("erro de rede em %s: %s", e.Op, e.Message)
}

func (e *ErrNetwork) Unwrap() error {
	return e.Cause
}

func (e *ErrNetwork) Is(target error) bool {
	_, ok := target.(*ErrNetwork)
	return ok
}

type ErrNotFound struct {
	Resource string
	ID       int64
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s não encontrado(a): %d", e.Resource, e.ID)
}

func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

type ErrMissingRequiredField struct {
	FieldName string
}

func (e *ErrMissingRequiredField) Error() string {
	return fmt.Sprintf("campo obrigatório ausente: %s", e.FieldName)
}

type ErrInvalidArgument struct {
	Message string
}

func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("argumento inválido: %s", e.Message)
}

type ErrInvalidValue struct {
	FieldName string
	Value     string
}

func (e *ErrInvalidValue) Error() string {
	return fmt.Sprintf("valor inválido '%s' para o campo '%s'", e.Value, e.FieldName)
}

func (e *ErrInvalidValue) Is(target error) bool {
	_, ok := target.(*ErrInvalidValue)
	return ok
}

// ErrOperationInProgress é devolvido quando o gatilho está desabilitado
// porque outra operação ainda não terminou.
type ErrOperationInProgress struct {
	Operation string
}

func (e *ErrOperationInProgress) Error() string {
	return fmt.Sprintf("operação em andamento: %s", e.Operation)
}

func (e *ErrOperationInProgress) Is(target error) bool {
	_, ok := target.(*ErrOperationInProgress)
	return ok
}

// ErrConfirmationDeclined não é uma falha: o usuário cancelou uma ação destrutiva.
type ErrConfirmationDeclined struct {
	Action string
}

func (e *ErrConfirmationDeclined) Error() string {
	return "ação cancelada pelo usuário: " + e.Action
}

func (e *ErrConfirmationDeclined) Is(target error) bool {
	_, ok := target.(*ErrConfirmationDeclined)
	return ok
}

type ErrFormState struct {
	Expected string
	Actual   string
}

func (e *ErrFormState) Error() string {
	return fmt.Sprintf("formulário em estado inesperado: esperado %s, atual %s", e.Expected, e.Actual)
}

type ErrUnknownCacheBackend struct {
	Backend string
}

func (e *ErrUnknownCacheBackend) Error() string {
	return fmt.Sprintf("backend de cache desconhecido: %s", e.Backend)
}

type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}

// UserMessage converte um erro em texto exibível no banner do componente.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var invalidURL *ErrInvalidURL
	if stderrors.As(err, &invalidURL) {
		return "URL inválida"
	}

	var validation *ErrValidation
	if stderrors.As(err, &validation) && validation.Message != "" {
		return validation.Message
	}

	var network *ErrNetwork
	if stderrors.As(err, &network) && network.Message != "" {
		return network.Message
	}

	var notFound *ErrNotFound
	if stderrors.As(err, &notFound) {
		return notFound.Error()
	}

	var missing *ErrMissingRequiredField
	if stderrors.As(err, &missing) {
		return missing.Error()
	}

	var invalidValue *ErrInvalidValue
	if stderrors.As(err, &invalidValue) {
		return invalidValue.Error()
	}

	var inProgress *ErrOperationInProgress
	if stderrors.As(err, &inProgress) {
		return inProgress.Error()
	}

	return fallback
}
