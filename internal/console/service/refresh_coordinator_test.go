package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cultura-alerta/go-editais/internal/console/service"
	"github.com/cultura-alerta/go-editais/internal/console/service/mocks"
	domainerrors "github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

func TestRefreshCoordinator_UpdateFeedsSuccessResyncs(t *testing.T) {
	client := new(mocks.RefreshClient)
	resyncer := new(mocks.Resyncer)

	client.On("UpdateFeeds", mock.Anything).Return(&models.ActionResult{Success: true, Message: "Feeds atualizados com sucesso"}, nil).Once()
	resyncer.On("ResyncAll", mock.Anything).Return(nil).Once()
	resyncer.On("Announce", mock.Anything, models.ActionUpdateFeeds).Return(nil).Once()

	coordinator := service.NewRefreshCoordinator(client, new(mocks.Confirmer), resyncer, time.Minute, discardLogger())
	defer coordinator.Close()

	result, err := coordinator.UpdateFeeds(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Success)

	banner, ok := coordinator.Banner()
	require.True(t, ok)
	assert.Equal(t, service.StatusSuccess, banner.Kind)
	assert.Equal(t, "Feeds atualizados com sucesso", banner.Message)
	resyncer.AssertExpectations(t)
	assert.False(t, coordinator.Busy())
}

func TestRefreshCoordinator_ReportedFailureShowsMessage(t *testing.T) {
	client := new(mocks.RefreshClient)
	resyncer := new(mocks.Resyncer)

	client.On("UpdateFeeds", mock.Anything).Return(&models.ActionResult{Success: false, Message: "Nenhuma fonte ativa"}, nil).Once()

	coordinator := service.NewRefreshCoordinator(client, new(mocks.Confirmer), resyncer, time.Minute, discardLogger())
	defer coordinator.Close()

	result, err := coordinator.UpdateFeeds(context.Background())

	require.NoError(t, err)
	assert.False(t, result.Success)

	banner, ok := coordinator.Banner()
	require.True(t, ok)
	assert.Equal(t, service.StatusError, banner.Kind)
	assert.Equal(t, "Nenhuma fonte ativa", banner.Message)
	resyncer.AssertNotCalled(t, "ResyncAll", mock.Anything)
}

func TestRefreshCoordinator_TransportFailureUsesFallback(t *testing.T) {
	client := new(mocks.RefreshClient)
	client.On("UpdateFeeds", mock.Anything).Return(nil, errors.New("dial tcp: connection refused")).Once()

	coordinator := service.NewRefreshCoordinator(client, new(mocks.Confirmer), new(mocks.Resyncer), time.Minute, discardLogger())
	defer coordinator.Close()

	_, err := coordinator.UpdateFeeds(context.Background())

	require.Error(t, err)

	banner, ok := coordinator.Banner()
	require.True(t, ok)
	assert.Equal(t, "Erro ao atualizar feeds. Tente novamente.", banner.Message)
}

func TestRefreshCoordinator_ClearCacheDeclined(t *testing.T) {
	client := new(mocks.RefreshClient)
	confirmer := new(mocks.Confirmer)
	confirmer.On("Confirm", mock.Anything, service.ClearCachePrompt).Return(false, nil).Once()

	coordinator := service.NewRefreshCoordinator(client, confirmer, new(mocks.Resyncer), time.Minute, discardLogger())
	defer coordinator.Close()

	_, err := coordinator.ClearCache(context.Background())

	var declined *domainerrors.ErrConfirmationDeclined
	require.ErrorAs(t, err, &declined)
	client.AssertNotCalled(t, "ClearCache", mock.Anything)

	_, ok := coordinator.Banner()
	assert.False(t, ok)
	assert.False(t, coordinator.Busy())
}

func TestRefreshCoordinator_ClearCacheConfirmed(t *testing.T) {
	client := new(mocks.RefreshClient)
	confirmer := new(mocks.Confirmer)
	resyncer := new(mocks.Resyncer)

	assert.NotEqual(t, service.DeleteSourcePrompt, service.ClearCachePrompt)

	confirmer.On("Confirm", mock.Anything, service.ClearCachePrompt).Return(true, nil).Once()
	client.On("ClearCache", mock.Anything).Return(&models.ActionResult{Success: true, Message: "Cache limpo"}, nil).Once()
	resyncer.On("ResyncAll", mock.Anything).Return(nil).Once()
	resyncer.On("Announce", mock.Anything, models.ActionClearCache).Return(nil).Once()

	coordinator := service.NewRefreshCoordinator(client, confirmer, resyncer, time.Minute, discardLogger())
	defer coordinator.Close()

	_, err := coordinator.ClearCache(context.Background())

	require.NoError(t, err)
	client.AssertExpectations(t)
	resyncer.AssertExpectations(t)
}

func TestRefreshCoordinator_OnlyOneActionInFlight(t *testing.T) {
	client := new(mocks.RefreshClient)
	started := make(chan struct{})
	release := make(chan struct{})

	client.On("UpdateFeeds", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&models.ActionResult{Success: false, Message: "falhou"}, nil).Once()

	confirmer := new(mocks.Confirmer)

	coordinator := service.NewRefreshCoordinator(client, confirmer, new(mocks.Resyncer), time.Minute, discardLogger())
	defer coordinator.Close()

	done := make(chan error, 1)

	go func() {
		_, err := coordinator.UpdateFeeds(context.Background())
		done <- err
	}()

	<-started
	assert.True(t, coordinator.Busy())

	_, err := coordinator.ClearCache(context.Background())

	var inProgress *domainerrors.ErrOperationInProgress
	require.ErrorAs(t, err, &inProgress)
	confirmer.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "ClearCache", mock.Anything)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, coordinator.Busy())
}

func TestRefreshCoordinator_BannerAutoDismisses(t *testing.T) {
	client := new(mocks.RefreshClient)
	client.On("UpdateFeeds", mock.Anything).Return(&models.ActionResult{Success: false, Message: "primeiro"}, nil).Once()
	client.On("UpdateFeeds", mock.Anything).Return(&models.ActionResult{Success: false, Message: "segundo"}, nil).Once()

	coordinator := service.NewRefreshCoordinator(client, new(mocks.Confirmer), new(mocks.Resyncer), 100*time.Millisecond, discardLogger())
	defer coordinator.Close()

	_, err := coordinator.UpdateFeeds(context.Background())
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	_, err = coordinator.UpdateFeeds(context.Background())
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	banner, ok := coordinator.Banner()
	require.True(t, ok, "novo banner deve rearmar o timer")
	assert.Equal(t, "segundo", banner.Message)

	require.Eventually(t, func() bool {
		_, ok := coordinator.Banner()
		return !ok
	}, time.Second, 5*time.Millisecond)
}
