package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cultura-alerta/go-editais/internal/common"
	"github.com/cultura-alerta/go-editais/internal/common/metrics"
	"github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

const DefaultPreviewDebounce = 500 * time.Millisecond

type PreviewState int

const (
	PreviewIdle PreviewState = iota
	PreviewDebouncing
	PreviewRequesting
	PreviewResolved
	PreviewFailed
)

func (s PreviewState) String() string {
	switch s {
	case PreviewIdle:
		return "idle"
	case PreviewDebouncing:
		return "debouncing"
	case PreviewRequesting:
		return "requesting"
	case PreviewResolved:
		return "resolved"
	case PreviewFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s PreviewState) Settled() bool {
	return s != PreviewDebouncing && s != PreviewRequesting
}

type PreviewSnapshot struct {
	State        PreviewState
	Preview      *models.Preview
	ErrorMessage string
	Seq          uint64
}

// PreviewFetcher busca o preview de uma fonte candidata com debounce.
// Cada mudança de entrada e cada requisição emitida incrementam seq; uma
// resposta só é aplicada se seq ainda for o da sua requisição.
type PreviewFetcher struct {
	client PreviewClient
	filler NameFiller
	delay  time.Duration
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	state      PreviewState
	preview    *models.Preview
	errMsg     string
	seq        uint64
	timer      *time.Timer
	autofilled bool
	changed    chan struct{}
}

func NewPreviewFetcher(client PreviewClient, delay time.Duration, logger *slog.Logger) *PreviewFetcher {
	if delay <= 0 {
		delay = DefaultPreviewDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &PreviewFetcher{
		client:  client,
		delay:   delay,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		changed: make(chan struct{}),
	}
}

// SetNameFiller liga o fetcher ao formulário que recebe o título do preview.
func (f *PreviewFetcher) SetNameFiller(filler NameFiller) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.filler = filler
}

// OnInput reage a uma mudança de (url, tipo). URL inválida falha de forma
// síncrona e não gera requisição.
func (f *PreviewFetcher) OnInput(rawURL string, sourceType models.SourceType) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopTimerLocked()
	f.seq++

	if strings.TrimSpace(rawURL) == "" {
		f.setLocked(PreviewIdle, nil, "")
		return nil
	}

	normalized, err := common.NormalizeURL(rawURL)
	if err != nil {
		metrics.RecordPreviewResult(metrics.PreviewInvalid)
		f.setLocked(PreviewFailed, nil, errors.UserMessage(err, errors.FallbackPreview))

		return err
	}

	generation := f.seq
	f.timer = time.AfterFunc(f.delay, func() {
		f.fire(generation, normalized, sourceType)
	})

	f.setLocked(PreviewDebouncing, f.preview, f.errMsg)

	return nil
}

func (f *PreviewFetcher) fire(generation uint64, url string, sourceType models.SourceType) {
	f.mu.Lock()
	if generation != f.seq {
		f.mu.Unlock()
		return
	}

	f.timer = nil
	f.seq++
	requestSeq := f.seq
	f.setLocked(PreviewRequesting, f.preview, f.errMsg)
	ctx := f.ctx
	f.mu.Unlock()

	f.logger.Debug("Solicitando preview da fonte",
		"url", url,
		"type", sourceType,
		"seq", requestSeq,
	)

	preview, err := f.client.PreviewSource(ctx, url, sourceType)

	f.mu.Lock()

	if requestSeq != f.seq {
		f.mu.Unlock()
		metrics.RecordPreviewResult(metrics.PreviewStale)

		f.logger.Debug("Resposta de preview obsoleta descartada",
			"seq", requestSeq,
		)

		return
	}

	if err != nil {
		f.setLocked(PreviewFailed, nil, errors.UserMessage(err, errors.FallbackPreview))
		f.mu.Unlock()
		metrics.RecordPreviewResult(metrics.PreviewFailed)

		f.logger.Warn("Falha ao carregar preview",
			"url", url,
			"error", err,
		)

		return
	}

	// O nome é preenchido sob f.mu, depois da checagem de seq, para que uma
	// resposta obsoleta nunca chegue ao formulário. SourceRegistry não chama
	// o observer segurando o próprio lock.
	if !f.autofilled && f.filler != nil && preview != nil && preview.Title != "" {
		f.autofilled = f.filler.FillNameIfEmpty(strings.TrimSpace(preview.Title))
	}

	f.setLocked(PreviewResolved, preview, "")
	f.mu.Unlock()

	metrics.RecordPreviewResult(metrics.PreviewApplied)
}

// Reset descarta o timer pendente e qualquer resposta em voo.
func (f *PreviewFetcher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopTimerLocked()
	f.seq++
	f.autofilled = false
	f.setLocked(PreviewIdle, nil, "")
}

func (f *PreviewFetcher) Snapshot() PreviewSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.snapshotLocked()
}

// WaitSettled bloqueia até o fetcher sair de Debouncing/Requesting.
func (f *PreviewFetcher) WaitSettled(ctx context.Context) (PreviewSnapshot, error) {
	for {
		f.mu.Lock()
		snapshot := f.snapshotLocked()
		changed := f.changed
		f.mu.Unlock()

		if snapshot.State.Settled() {
			return snapshot, nil
		}

		select {
		case <-ctx.Done():
			return snapshot, ctx.Err()
		case <-changed:
		}
	}
}

func (f *PreviewFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopTimerLocked()
	f.seq++
	f.cancel()
	f.setLocked(PreviewIdle, nil, "")
}

func (f *PreviewFetcher) snapshotLocked() PreviewSnapshot {
	snapshot := PreviewSnapshot{
		State:        f.state,
		ErrorMessage: f.errMsg,
		Seq:          f.seq,
	}

	if f.preview != nil {
		preview := *f.preview
		snapshot.Preview = &preview
	}

	return snapshot
}

func (f *PreviewFetcher) setLocked(state PreviewState, preview *models.Preview, errMsg string) {
	f.state = state
	f.preview = preview
	f.errMsg = errMsg

	close(f.changed)
	f.changed = make(chan struct{})
}

func (f *PreviewFetcher) stopTimerLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
