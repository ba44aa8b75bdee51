package service

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/cultura-alerta/go-editais/internal/common/metrics"
	"github.com/cultura-alerta/go-editais/internal/console/cache"
	"github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

type FilterMode int

const (
	// FilterModeLocal filtra no cliente por busca, categoria e prazo.
	FilterModeLocal FilterMode = iota
	// FilterModeRemote envia busca, categoria e intervalo de datas ao backend.
	FilterModeRemote
)

func (m FilterMode) String() string {
	if m == FilterModeRemote {
		return "remote"
	}

	return "local"
}

const millisPerDay = 86400000

// DaysUntil arredonda para cima a diferença em dias; prazos vencidos dão valores negativos.
func DaysUntil(deadline, now time.Time) int {
	ms := deadline.Sub(now).Milliseconds()
	return int(math.Ceil(float64(ms) / millisPerDay))
}

func ClassifyDeadline(notice models.Notice, now time.Time) models.DeadlineClass {
	if notice.DataVencimento == nil {
		return models.DeadlineNone
	}

	days := DaysUntil(*notice.DataVencimento, now)

	switch {
	case days < 0:
		return models.DeadlineExpired
	case days <= models.UrgentDeadlineDays:
		return models.DeadlineUrgent
	default:
		return models.DeadlineOpen
	}
}

// Matches aplica os predicados do modo local. O prazo não tem limite
// inferior: um edital vencido satisfaz qualquer faixa.
func Matches(notice models.Notice, criteria models.FilterCriteria, now time.Time) bool {
	if criteria.Search != "" {
		search := strings.ToLower(criteria.Search)

		if !strings.Contains(strings.ToLower(notice.Nome), search) &&
			!strings.Contains(strings.ToLower(notice.DescricaoValue()), search) {
			return false
		}
	}

	if categoria := criteria.EffectiveCategoria(); categoria != "" && notice.CategoriaValue() != categoria {
		return false
	}

	if criteria.Bucket != models.BucketNone {
		if notice.DataVencimento == nil {
			return false
		}

		if DaysUntil(*notice.DataVencimento, now) > int(criteria.Bucket) {
			return false
		}
	}

	return true
}

func FilterLocal(notices []models.Notice, criteria models.FilterCriteria, now time.Time) []models.Notice {
	result := make([]models.Notice, 0, len(notices))

	for _, notice := range notices {
		if Matches(notice, criteria, now) {
			result = append(result, notice)
		}
	}

	return result
}

// NoticeFilterEngine mantém o conjunto de editais buscado, os critérios e o
// subconjunto exibido, que é sempre função pura dos dois primeiros.
type NoticeFilterEngine struct {
	client NoticeClient
	cache  cache.SnapshotCache
	mode   FilterMode
	now    func() time.Time
	logger *slog.Logger

	mu         sync.Mutex
	notices    []models.Notice
	displayed  []models.Notice
	categories []string
	criteria   models.FilterCriteria
	selectedID int64
	seq        uint64
	errMsg     string
}

func NewNoticeFilterEngine(
	client NoticeClient,
	snapshotCache cache.SnapshotCache,
	mode FilterMode,
	logger *slog.Logger,
) *NoticeFilterEngine {
	return &NoticeFilterEngine{
		client: client,
		cache:  snapshotCache,
		mode:   mode,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock troca o relógio usado pelos predicados de prazo.
func (e *NoticeFilterEngine) WithClock(now func() time.Time) *NoticeFilterEngine {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.now = now

	return e
}

func (e *NoticeFilterEngine) Mode() FilterMode {
	return e.mode
}

// Load busca os editais. No modo remoto os critérios viram query string e só a
// resposta da requisição mais recente é aplicada.
func (e *NoticeFilterEngine) Load(ctx context.Context) error {
	e.mu.Lock()
	e.seq++
	seq := e.seq

	var params map[string]string
	if e.mode == FilterModeRemote {
		params = e.criteria.QueryParams()
	}
	e.mu.Unlock()

	notices, err := e.client.ListNotices(ctx, params)

	e.mu.Lock()
	defer e.mu.Unlock()

	if seq != e.seq {
		e.logger.Debug("Resposta de editais obsoleta descartada", "seq", seq)
		return nil
	}

	if err != nil {
		e.errMsg = errors.UserMessage(err, errors.FallbackListNotices)

		e.logger.Error("Erro ao carregar editais", "error", err)

		return err
	}

	e.errMsg = ""
	e.applyLocked(notices)

	if e.cache != nil {
		if err := e.cache.SetNotices(ctx, cache.NoticesKey(params), notices); err != nil {
			e.logger.Warn("Erro ao gravar editais no cache", "error", err)
		}
	}

	return nil
}

// LoadCached aplica o último snapshot salvo para os critérios atuais.
// Devolve false quando não há snapshot.
func (e *NoticeFilterEngine) LoadCached(ctx context.Context) (bool, error) {
	if e.cache == nil {
		return false, nil
	}

	e.mu.Lock()

	var params map[string]string
	if e.mode == FilterModeRemote {
		params = e.criteria.QueryParams()
	}
	e.mu.Unlock()

	notices, err := e.cache.GetNotices(ctx, cache.NoticesKey(params))
	metrics.RecordCacheLookup("notices", err == nil && notices != nil)

	if err != nil || notices == nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.seq++
	e.applyLocked(notices)

	return true, nil
}

// SetCriteria troca todos os critérios de uma vez. Faixa de prazo só vale no
// modo local e intervalo de datas só no remoto.
func (e *NoticeFilterEngine) SetCriteria(ctx context.Context, criteria models.FilterCriteria) error {
	if err := e.validate(criteria); err != nil {
		return err
	}

	e.mu.Lock()
	e.criteria = criteria

	if e.mode == FilterModeLocal {
		e.recomputeLocked()
		e.mu.Unlock()

		return nil
	}
	e.mu.Unlock()

	return e.Load(ctx)
}

// Clear zera todos os critérios numa única atualização.
func (e *NoticeFilterEngine) Clear(ctx context.Context) error {
	return e.SetCriteria(ctx, models.FilterCriteria{})
}

func (e *NoticeFilterEngine) Criteria() models.FilterCriteria {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.criteria
}

func (e *NoticeFilterEngine) Displayed() []models.Notice {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append(make([]models.Notice, 0, len(e.displayed)), e.displayed...)
}

func (e *NoticeFilterEngine) Select(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, notice := range e.displayed {
		if notice.ID == id {
			e.selectedID = id
			return nil
		}
	}

	return &errors.ErrNotFound{Resource: "edital", ID: id}
}

func (e *NoticeFilterEngine) Selected() (models.Notice, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, notice := range e.displayed {
		if notice.ID == e.selectedID {
			return notice, true
		}
	}

	return models.Notice{}, false
}

// LoadCategories usa o cache quando fromCache é true e há snapshot.
func (e *NoticeFilterEngine) LoadCategories(ctx context.Context, fromCache bool) ([]string, error) {
	if fromCache && e.cache != nil {
		categories, err := e.cache.GetCategories(ctx)
		metrics.RecordCacheLookup("categories", err == nil && categories != nil)

		if err == nil && categories != nil {
			e.setCategories(categories)
			return categories, nil
		}
	}

	categories, err := e.client.ListCategories(ctx)
	if err != nil {
		e.mu.Lock()
		e.errMsg = errors.UserMessage(err, errors.FallbackListCategories)
		e.mu.Unlock()

		e.logger.Error("Erro ao carregar categorias", "error", err)

		return nil, err
	}

	e.setCategories(categories)

	if e.cache != nil {
		if err := e.cache.SetCategories(ctx, categories); err != nil {
			e.logger.Warn("Erro ao gravar categorias no cache", "error", err)
		}
	}

	return categories, nil
}

func (e *NoticeFilterEngine) Categories() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.categories...)
}

func (e *NoticeFilterEngine) ErrorMessage() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.errMsg
}

func (e *NoticeFilterEngine) Now() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.now()
}

func (e *NoticeFilterEngine) validate(criteria models.FilterCriteria) error {
	switch e.mode {
	case FilterModeLocal:
		if criteria.HasDateRange() {
			return &errors.ErrInvalidArgument{Message: "intervalo de datas só é suportado no modo remoto"}
		}
	case FilterModeRemote:
		if criteria.Bucket != models.BucketNone {
			return &errors.ErrInvalidArgument{Message: "faixa de prazo só é suportada no modo local"}
		}
	}

	return nil
}

func (e *NoticeFilterEngine) setCategories(categories []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.categories = append([]string(nil), categories...)
}

func (e *NoticeFilterEngine) applyLocked(notices []models.Notice) {
	e.notices = notices
	e.recomputeLocked()
}

func (e *NoticeFilterEngine) recomputeLocked() {
	if e.mode == FilterModeRemote {
		e.displayed = append(make([]models.Notice, 0, len(e.notices)), e.notices...)
	} else {
		e.displayed = FilterLocal(e.notices, e.criteria, e.now())
	}

	found := false

	for _, notice := range e.displayed {
		if notice.ID == e.selectedID {
			found = true
			break
		}
	}

	if !found {
		e.selectedID = 0
	}

	metrics.SetNoticesDisplayed(len(e.displayed))
}
