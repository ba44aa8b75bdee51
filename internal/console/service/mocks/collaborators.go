package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

type Confirmer struct {
	mock.Mock
}

func (m *Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

type Resyncer struct {
	mock.Mock
}

func (m *Resyncer) ResyncAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Resyncer) Announce(ctx context.Context, reason models.RefreshAction) error {
	args := m.Called(ctx, reason)
	return args.Error(0)
}

type ResyncPublisher struct {
	mock.Mock
}

func (m *ResyncPublisher) PublishResync(ctx context.Context, event models.ResyncEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type FormObserver struct {
	mock.Mock
}

func (m *FormObserver) OnInput(rawURL string, sourceType models.SourceType) error {
	args := m.Called(rawURL, sourceType)
	return args.Error(0)
}

func (m *FormObserver) Reset() {
	m.Called()
}
