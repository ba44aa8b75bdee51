package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cultura-alerta/go-editais/internal/common"
	"github.com/cultura-alerta/go-editais/internal/common/metrics"
	"github.com/cultura-alerta/go-editais/internal/console/cache"
	"github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

// SourceRegistry é o único dono da lista de fontes e do slot de formulário.
// Nenhuma fonte é alterada localmente sem ida e volta ao backend: toda
// mutação bem-sucedida é seguida de um List completo.
type SourceRegistry struct {
	client    SourceClient
	confirmer Confirmer
	cache     cache.SnapshotCache
	observer  FormObserver
	logger    *slog.Logger

	mu      sync.Mutex
	sources []models.Source
	listSeq uint64
	form    models.FormSlot
	errMsg  string
	busy    string
}

func NewSourceRegistry(
	client SourceClient,
	confirmer Confirmer,
	snapshotCache cache.SnapshotCache,
	logger *slog.Logger,
) *SourceRegistry {
	return &SourceRegistry{
		client:    client,
		confirmer: confirmer,
		cache:     snapshotCache,
		logger:    logger,
	}
}

// SetFormObserver conecta o preview ao formulário de criação.
func (r *SourceRegistry) SetFormObserver(observer FormObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.observer = observer
}

func (r *SourceRegistry) List(ctx context.Context) ([]models.Source, error) {
	r.mu.Lock()
	r.listSeq++
	seq := r.listSeq
	r.mu.Unlock()

	sources, err := r.client.ListSources(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.listSeq {
		r.logger.Debug("Resposta de fontes obsoleta descartada", "seq", seq)
		return cloneSources(r.sources), nil
	}

	if err != nil {
		r.errMsg = errors.UserMessage(err, errors.FallbackListSources)

		r.logger.Error("Erro ao carregar fontes", "error", err)

		return nil, err
	}

	r.sources = sources

	// Gravado sob r.mu para que o cache siga a ordem das respostas aplicadas.
	if r.cache != nil {
		if err := r.cache.SetSources(ctx, sources); err != nil {
			r.logger.Warn("Erro ao gravar fontes no cache", "error", err)
		}
	}

	return cloneSources(r.sources), nil
}

// Sources devolve a última lista aplicada.
func (r *SourceRegistry) Sources() []models.Source {
	r.mu.Lock()
	defer r.mu.Unlock()

	return cloneSources(r.sources)
}

func (r *SourceRegistry) Find(id int64) (models.Source, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, source := range r.sources {
		if source.ID == id {
			return source, true
		}
	}

	return models.Source{}, false
}

// Create envia o formulário de criação. A URL é validada antes de qualquer requisição.
func (r *SourceRegistry) Create(ctx context.Context) (*models.Source, error) {
	r.mu.Lock()

	if r.form.Kind != models.FormCreating {
		r.mu.Unlock()
		return nil, &errors.ErrFormState{Expected: models.FormCreating.String(), Actual: r.form.Kind.String()}
	}

	data := r.form.Data
	r.mu.Unlock()

	input, err := buildSourceInput(data)
	if err != nil {
		r.fail(err, errors.FallbackCreateSource)
		return nil, err
	}

	if err := r.begin("create"); err != nil {
		return nil, err
	}
	defer r.end()

	source, err := r.client.CreateSource(ctx, input)
	metrics.RecordAction("create_source", err)

	if err != nil {
		r.fail(err, errors.FallbackCreateSource)

		r.logger.Error("Erro ao adicionar fonte",
			"url", input.URL,
			"error", err,
		)

		return nil, err
	}

	r.logger.Info("Fonte adicionada",
		"id", source.ID,
		"url", source.URL,
	)

	r.closeForm(func(slot models.FormSlot) bool { return slot.Kind == models.FormCreating })
	r.clearError()

	if _, err := r.List(ctx); err != nil {
		r.logger.Warn("Fonte criada, mas a lista não foi recarregada", "error", err)
	}

	return source, nil
}

// Update altera qualquer subconjunto de name, url, type e active.
func (r *SourceRegistry) Update(ctx context.Context, id int64, patch models.SourcePatch) (*models.Source, error) {
	patch, err := normalizePatch(patch)
	if err != nil {
		r.fail(err, errors.FallbackUpdateSource)
		return nil, err
	}

	if err := r.begin("update"); err != nil {
		return nil, err
	}
	defer r.end()

	source, err := r.client.UpdateSource(ctx, id, patch)
	metrics.RecordAction("update_source", err)

	if err != nil {
		r.fail(err, errors.FallbackUpdateSource)

		r.logger.Error("Erro ao atualizar fonte",
			"id", id,
			"error", err,
		)

		return nil, err
	}

	r.logger.Info("Fonte atualizada", "id", id)

	r.closeForm(func(slot models.FormSlot) bool { return slot.IsEditing(id) })
	r.clearError()

	if _, err := r.List(ctx); err != nil {
		r.logger.Warn("Fonte atualizada, mas a lista não foi recarregada", "error", err)
	}

	return source, nil
}

// SubmitEdit envia o formulário de edição aberto como um patch completo.
func (r *SourceRegistry) SubmitEdit(ctx context.Context) (*models.Source, error) {
	r.mu.Lock()

	if r.form.Kind != models.FormEditing {
		r.mu.Unlock()
		return nil, &errors.ErrFormState{Expected: models.FormEditing.String(), Actual: r.form.Kind.String()}
	}

	id := r.form.EditingID
	data := r.form.Data
	r.mu.Unlock()

	sourceType := data.Type

	return r.Update(ctx, id, models.SourcePatch{
		Name: &data.Name,
		URL:  &data.URL,
		Type: &sourceType,
	})
}

// Delete pede confirmação antes da requisição. Recusa não é erro de tela:
// devolve ErrConfirmationDeclined sem tocar no banner.
func (r *SourceRegistry) Delete(ctx context.Context, id int64) error {
	if err := r.begin("delete"); err != nil {
		return err
	}
	defer r.end()

	confirmed, err := r.confirmer.Confirm(ctx, DeleteSourcePrompt)
	if err != nil {
		return err
	}

	if !confirmed {
		metrics.RecordConfirmationDeclined("delete_source")
		return &errors.ErrConfirmationDeclined{Action: "delete_source"}
	}

	err = r.client.DeleteSource(ctx, id)
	metrics.RecordAction("delete_source", err)

	if err != nil {
		r.fail(err, errors.FallbackDeleteSource)

		r.logger.Error("Erro ao excluir fonte",
			"id", id,
			"error", err,
		)

		return err
	}

	r.logger.Info("Fonte excluída", "id", id)

	r.closeForm(func(slot models.FormSlot) bool { return slot.IsEditing(id) })
	r.clearError()

	if _, err := r.List(ctx); err != nil {
		r.logger.Warn("Fonte excluída, mas a lista não foi recarregada", "error", err)
	}

	return nil
}

func (r *SourceRegistry) StartCreate() {
	r.setForm(models.FormSlot{Kind: models.FormCreating, Data: models.EmptyFormData()})
}

// StartEdit sobrescreve o slot; edições não enviadas de outra fonte são descartadas.
func (r *SourceRegistry) StartEdit(source models.Source) {
	r.setForm(models.FormSlot{
		Kind:      models.FormEditing,
		EditingID: source.ID,
		Data: models.FormData{
			Name: source.Name,
			URL:  source.URL,
			Type: source.Type,
		},
	})
}

func (r *SourceRegistry) CancelForm() {
	r.setForm(models.FormSlot{Kind: models.FormClosed})
}

func (r *SourceRegistry) SetField(field models.FormField, value string) error {
	r.mu.Lock()

	if r.form.Kind == models.FormClosed {
		r.mu.Unlock()
		return &errors.ErrFormState{Expected: "creating|editing", Actual: r.form.Kind.String()}
	}

	switch field {
	case models.FieldName:
		r.form.Data.Name = value
	case models.FieldURL:
		// Guarda a forma normalizada quando válida; entrada inválida fica como
		// digitada e só falha no envio.
		if normalized, err := common.NormalizeURL(value); err == nil {
			value = normalized
		}

		r.form.Data.URL = value
	case models.FieldType:
		sourceType, err := models.ParseSourceType(value)
		if err != nil {
			r.mu.Unlock()
			return err
		}

		r.form.Data.Type = sourceType
	default:
		r.mu.Unlock()
		return &errors.ErrInvalidValue{FieldName: "field", Value: string(field)}
	}

	notify := r.observer != nil && r.form.Kind == models.FormCreating && field != models.FieldName
	observer := r.observer
	data := r.form.Data
	r.mu.Unlock()

	if notify {
		_ = observer.OnInput(data.URL, data.Type)
	}

	return nil
}

// FillNameIfEmpty é chamado pelo preview; nunca sobrescreve um nome digitado.
func (r *SourceRegistry) FillNameIfEmpty(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.form.Kind != models.FormCreating || strings.TrimSpace(r.form.Data.Name) != "" || name == "" {
		return false
	}

	r.form.Data.Name = name

	return true
}

func (r *SourceRegistry) Form() models.FormSlot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.form
}

func (r *SourceRegistry) ErrorMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.errMsg
}

func (r *SourceRegistry) DismissError() {
	r.clearError()
}

// Busy indica que uma mutação está em andamento e o envio está desabilitado.
func (r *SourceRegistry) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.busy != ""
}

func (r *SourceRegistry) begin(operation string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.busy != "" {
		return &errors.ErrOperationInProgress{Operation: r.busy}
	}

	r.busy = operation

	return nil
}

func (r *SourceRegistry) end() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.busy = ""
}

func (r *SourceRegistry) fail(err error, fallback string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errMsg = errors.UserMessage(err, fallback)
}

func (r *SourceRegistry) clearError() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errMsg = ""
}

func (r *SourceRegistry) setForm(slot models.FormSlot) {
	r.mu.Lock()
	r.form = slot
	observer := r.observer
	r.mu.Unlock()

	if observer != nil {
		observer.Reset()
	}
}

func (r *SourceRegistry) closeForm(match func(models.FormSlot) bool) {
	r.mu.Lock()

	if !match(r.form) {
		r.mu.Unlock()
		return
	}

	r.form = models.FormSlot{Kind: models.FormClosed}
	observer := r.observer
	r.mu.Unlock()

	if observer != nil {
		observer.Reset()
	}
}

func buildSourceInput(data models.FormData) (models.SourceInput, error) {
	normalized, err := common.NormalizeURL(data.URL)
	if err != nil {
		return models.SourceInput{}, err
	}

	name := strings.TrimSpace(data.Name)
	if name == "" {
		return models.SourceInput{}, &errors.ErrMissingRequiredField{FieldName: "name"}
	}

	sourceType, err := models.ParseSourceType(string(data.Type))
	if err != nil {
		return models.SourceInput{}, err
	}

	return models.SourceInput{Name: name, URL: normalized, Type: sourceType}, nil
}

func normalizePatch(patch models.SourcePatch) (models.SourcePatch, error) {
	if patch.IsEmpty() {
		return patch, &errors.ErrInvalidArgument{Message: "nenhum campo para atualizar"}
	}

	if patch.URL != nil {
		normalized, err := common.NormalizeURL(*patch.URL)
		if err != nil {
			return patch, err
		}

		patch.URL = &normalized
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return patch, &errors.ErrMissingRequiredField{FieldName: "name"}
		}

		patch.Name = &name
	}

	if patch.Type != nil {
		sourceType, err := models.ParseSourceType(string(*patch.Type))
		if err != nil {
			return patch, err
		}

		patch.Type = &sourceType
	}

	return patch, nil
}

func cloneSources(sources []models.Source) []models.Source {
	if sources == nil {
		return nil
	}

	return append(make([]models.Source, 0, len(sources)), sources...)
}
