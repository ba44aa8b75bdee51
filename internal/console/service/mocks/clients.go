package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

type PreviewClient struct {
	mock.Mock
}

func (m *PreviewClient) PreviewSource(ctx context.Context, url string, sourceType models.SourceType) (*models.Preview, error) {
	args := m.Called(ctx, url, sourceType)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Preview), args.Error(1)
}

type SourceClient struct {
	mock.Mock
}

func (m *SourceClient) ListSources(ctx context.Context) ([]models.Source, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Source), args.Error(1)
}

func (m *SourceClient) CreateSource(ctx context.Context, input models.SourceInput) (*models.Source, error) {
	args := m.Called(ctx, input)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Source), args.Error(1)
}

func (m *SourceClient) UpdateSource(ctx context.Context, id int64, patch models.SourcePatch) (*models.Source, error) {
	args := m.Called(ctx, id, patch)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Source), args.Error(1)
}

func (m *SourceClient) DeleteSource(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type NoticeClient struct {
	mock.Mock
}

func (m *NoticeClient) ListNotices(ctx context.Context, params map[string]string) ([]models.Notice, error) {
	args := m.Called(ctx, params)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Notice), args.Error(1)
}

func (m *NoticeClient) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]string), args.Error(1)
}

type RefreshClient struct {
	mock.Mock
}

func (m *RefreshClient) UpdateFeeds(ctx context.Context) (*models.ActionResult, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ActionResult), args.Error(1)
}

func (m *RefreshClient) ClearCache(ctx context.Context) (*models.ActionResult, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ActionResult), args.Error(1)
}
