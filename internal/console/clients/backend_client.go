package clients

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-resty/resty/v2"

	"github.com/cultura-alerta/go-editais/internal/common/httputil"
	"github.com/cultura-alerta/go-editais/internal/common/metrics"
	"github.com/cultura-alerta/go-editais/internal/config"
	domainerrors "github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

const serviceName = "backend"

// BackendClient fala com a API HTTP do backend de editais (scraper + armazenamento).
type BackendClient struct {
	client  *resty.Client
	baseURL string
	logger  *slog.Logger
}

func NewBackendClient(cfg *config.Config, logger *slog.Logger) *BackendClient {
	baseURL := strings.TrimRight(cfg.BackendBaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	return &BackendClient{
		client:  httputil.CreateResilientHTTPClient(cfg, logger, serviceName),
		baseURL: baseURL,
		logger:  logger,
	}
}

type call struct {
	op       string
	method   string
	path     string
	query    map[string]string
	body     any
	result   any
	fallback string
	sourceID int64
}

func (c *BackendClient) ListNotices(ctx context.Context, params map[string]string) ([]models.Notice, error) {
	var notices []models.Notice

	err := c.execute(ctx, call{
		op:       "list_notices",
		method:   http.MethodGet,
		path:     "/api/editais",
		query:    params,
		result:   &notices,
		fallback: domainerrors.FallbackListNotices,
	})
	if err != nil {
		return nil, err
	}

	return notices, nil
}

func (c *BackendClient) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string

	err := c.execute(ctx, call{
		op:       "list_categories",
		method:   http.MethodGet,
		path:     "/api/categorias",
		result:   &categories,
		fallback: domainerrors.FallbackListCategories,
	})
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (c *BackendClient) ListSources(ctx context.Context) ([]models.Source, error) {
	var sources []models.Source

	err := c.execute(ctx, call{
		op:       "list_sources",
		method:   http.MethodGet,
		path:     "/api/sources",
		result:   &sources,
		fallback: domainerrors.FallbackListSources,
	})
	if err != nil {
		return nil, err
	}

	return sources, nil
}

func (c *BackendClient) CreateSource(ctx context.Context, input models.SourceInput) (*models.Source, error) {
	var source models.Source

	err := c.execute(ctx, call{
		op:       "create_source",
		method:   http.MethodPost,
		path:     "/api/sources",
		body:     input,
		result:   &source,
		fallback: domainerrors.FallbackCreateSource,
	})
	if err != nil {
		return nil, err
	}

	return &source, nil
}

func (c *BackendClient) PreviewSource(ctx context.Context, url string, sourceType models.SourceType) (*models.Preview, error) {
	var preview models.Preview

	err := c.execute(ctx, call{
		op:       "preview_source",
		method:   http.MethodPost,
		path:     "/api/sources/preview",
		body:     map[string]string{"url": url, "type": string(sourceType)},
		result:   &preview,
		fallback: domainerrors.FallbackPreview,
	})
	if err != nil {
		return nil, err
	}

	return &preview, nil
}

func (c *BackendClient) UpdateSource(ctx context.Context, id int64, patch models.SourcePatch) (*models.Source, error) {
	var source models.Source

	err := c.execute(ctx, call{
		op:       "update_source",
		method:   http.MethodPut,
		path:     "/api/sources/" + strconv.FormatInt(id, 10),
		body:     patch,
		result:   &source,
		fallback: domainerrors.FallbackUpdateSource,
		sourceID: id,
	})
	if err != nil {
		return nil, err
	}

	return &source, nil
}

func (c *BackendClient) DeleteSource(ctx context.Context, id int64) error {
	return c.execute(ctx, call{
		op:       "delete_source",
		method:   http.MethodDelete,
		path:     "/api/sources/" + strconv.FormatInt(id, 10),
		fallback: domainerrors.FallbackDeleteSource,
		sourceID: id,
	})
}

func (c *BackendClient) UpdateFeeds(ctx context.Context) (*models.ActionResult, error) {
	return c.action(ctx, "update_feeds", "/api/update-feeds", domainerrors.FallbackUpdateFeeds)
}

func (c *BackendClient) ClearCache(ctx context.Context) (*models.ActionResult, error) {
	return c.action(ctx, "clear_cache", "/api/clear-cache", domainerrors.FallbackClearCache)
}

func (c *BackendClient) action(ctx context.Context, op, path, fallback string) (*models.ActionResult, error) {
	var result models.ActionResult

	err := c.execute(ctx, call{
		op:       op,
		method:   http.MethodPost,
		path:     path,
		result:   &result,
		fallback: fallback,
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *BackendClient) execute(ctx context.Context, req call) error {
	request := c.client.R().SetContext(ctx)

	if len(req.query) > 0 {
		request.SetQueryParams(req.query)
	}

	if req.body != nil {
		request.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}

	if req.result != nil {
		request.SetResult(req.result)
	}

	start := time.Now()
	resp, err := request.Execute(req.method, c.baseURL+req.path)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode()
	}

	metrics.RecordHTTPRequest(serviceName, req.method, req.op, statusCode, time.Since(start))

	if err != nil {
		c.logger.Error("Falha de transporte ao chamar o backend",
			"op", req.op,
			"error", err,
		)

		return &domainerrors.ErrNetwork{
			Op:      req.op,
			Message: req.fallback,
			Cause:   errors.Wrap(err, req.method+" "+req.path),
		}
	}

	if resp.IsSuccess() {
		return nil
	}

	message := extractErrorMessage(resp.Body())

	c.logger.Warn("Backend respondeu com erro",
		"op", req.op,
		"status", statusCode,
		"message", message,
	)

	return mapStatusError(req, statusCode, message)
}

func mapStatusError(req call, statusCode int, message string) error {
	switch statusCode {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		if message == "" {
			message = req.fallback
		}

		return &domainerrors.ErrValidation{Message: message}
	case http.StatusNotFound:
		if req.sourceID != 0 {
			return &domainerrors.ErrNotFound{Resource: "fonte", ID: req.sourceID}
		}
	}

	if message == "" {
		message = req.fallback
	}

	return &domainerrors.ErrNetwork{
		Op:      req.op,
		Message: message,
		Cause:   &domainerrors.HTTPError{StatusCode: statusCode},
	}
}

// extractErrorMessage lê o campo "error" do envelope {"error": "..."}; corpo fora
// desse formato devolve string vazia.
func extractErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return ""
	}

	var message string

	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "error" || d.Next() != jx.String {
			return d.Skip()
		}

		value, err := d.Str()
		if err != nil {
			return err
		}

		message = value

		return nil
	})
	if err != nil {
		return ""
	}

	return strings.TrimSpace(message)
}
