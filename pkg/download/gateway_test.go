package download_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kasuboski/snatcher/pkg/download"
	"github.com/kasuboski/snatcher/pkg/download/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func mockClient(ctrl *gomock.Controller, name string, protocols ...string) *mocks.MockClient {
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().Name().Return(name).AnyTimes()
	client.EXPECT().Protocols().Return(protocols).AnyTimes()
	return client
}

func TestGateway_Enabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	sab := mockClient(ctrl, "sabnzbd", download.ProtocolNZB)
	transmission := mockClient(ctrl, "transmission", download.ProtocolTorrent, download.ProtocolTorrentMagnet)

	gateway := download.NewGateway(
		download.Downloader{Client: sab, Enabled: true},
		download.Downloader{Client: transmission, Enabled: true, Manual: true},
	)

	assert.True(t, gateway.Enabled(download.ProtocolNZB, false))
	assert.False(t, gateway.Enabled(download.ProtocolTorrent, false))
	assert.True(t, gateway.Enabled(download.ProtocolTorrent, true))
	assert.False(t, gateway.Enabled("ftp", true))

	disabled := download.NewGateway(download.Downloader{Client: sab})
	assert.False(t, disabled.Enabled(download.ProtocolNZB, true))
}

func TestGateway_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("first accepting downloader", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sab := mockClient(ctrl, "sabnzbd", download.ProtocolNZB)
		backup := mockClient(ctrl, "backup", download.ProtocolNZB)

		request := download.SubmitRequest{
			Protocol:   download.ProtocolNZB,
			AddRequest: download.AddRequest{Name: "Heat.1995", URL: "http://indexer/1"},
		}
		sab.EXPECT().Add(gomock.Any(), request.AddRequest).Return("nzo_1", nil)

		gateway := download.NewGateway(
			download.Downloader{Client: sab, Enabled: true},
			download.Downloader{Client: backup, Enabled: true},
		)

		result, err := gateway.Submit(ctx, request)
		require.NoError(t, err)
		assert.Equal(t, &download.Result{
			Downloader: "sabnzbd",
			ID:         "nzo_1",
			Metadata:   map[string]string{"id": "nzo_1", "downloader": "sabnzbd"},
		}, result)
	})

	t.Run("client error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sab := mockClient(ctrl, "sabnzbd", download.ProtocolNZB)
		sab.EXPECT().Add(gomock.Any(), gomock.Any()).Return("", errors.New("connection refused"))

		gateway := download.NewGateway(download.Downloader{Client: sab, Enabled: true})
		_, err := gateway.Submit(ctx, download.SubmitRequest{Protocol: download.ProtocolNZB})
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("manual only downloader", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sab := mockClient(ctrl, "sabnzbd", download.ProtocolNZB)

		gateway := download.NewGateway(download.Downloader{Client: sab, Enabled: true, Manual: true})
		_, err := gateway.Submit(ctx, download.SubmitRequest{Protocol: download.ProtocolNZB})
		assert.ErrorIs(t, err, download.ErrNoDownloader)

		sab.EXPECT().Add(gomock.Any(), gomock.Any()).Return("nzo_2", nil)
		result, err := gateway.Submit(ctx, download.SubmitRequest{Protocol: download.ProtocolNZB, Manual: true})
		require.NoError(t, err)
		assert.Equal(t, "nzo_2", result.ID)
	})
}

func TestGateway_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("merges downloaders and routes ids", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sab := mockClient(ctrl, "sabnzbd", download.ProtocolNZB)
		transmission := mockClient(ctrl, "transmission", download.ProtocolTorrent)

		sab.EXPECT().List(gomock.Any(), "nzo_1").Return([]download.Status{{ID: "nzo_1", State: download.StateBusy}}, nil)
		transmission.EXPECT().List(gomock.Any(), "ABC", "DEF").Return([]download.Status{{ID: "ABC", State: download.StateSeeding}}, nil)

		gateway := download.NewGateway(
			download.Downloader{Client: sab, Enabled: true},
			download.Downloader{Client: transmission, Enabled: true},
		)

		records, err := gateway.Status(ctx, []download.Ref{
			{ID: "nzo_1", Downloader: "sabnzbd"},
			{ID: "ABC", Downloader: "transmission"},
			{ID: "DEF", Downloader: "transmission"},
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []download.Record{
			{Status: download.Status{ID: "nzo_1", State: download.StateBusy}, Downloader: "sabnzbd"},
			{Status: download.Status{ID: "ABC", State: download.StateSeeding}, Downloader: "transmission"},
		}, records)
	})

	t.Run("answered with nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sab := mockClient(ctrl, "sabnzbd", download.ProtocolNZB)
		sab.EXPECT().List(gomock.Any()).Return(nil, nil)

		gateway := download.NewGateway(download.Downloader{Client: sab, Enabled: true})
		records, err := gateway.Status(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("nobody answered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sab := mockClient(ctrl, "sabnzbd", download.ProtocolNZB)
		sab.EXPECT().List(gomock.Any()).Return(nil, errors.New("timeout"))
		off := mockClient(ctrl, "off", download.ProtocolNZB)

		gateway := download.NewGateway(
			download.Downloader{Client: sab, Enabled: true},
			download.Downloader{Client: off},
		)
		records, err := gateway.Status(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, records)
	})

	t.Run("one downloader unreachable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sab := mockClient(ctrl, "sabnzbd", download.ProtocolNZB)
		transmission := mockClient(ctrl, "transmission", download.ProtocolTorrent)

		sab.EXPECT().List(gomock.Any(), "nzo_1").Return([]download.Status{{ID: "nzo_1", State: download.StateBusy}}, nil)
		timeout := errors.New("timeout")
		transmission.EXPECT().List(gomock.Any(), "ABC").Return(nil, timeout)

		gateway := download.NewGateway(
			download.Downloader{Client: sab, Enabled: true},
			download.Downloader{Client: transmission, Enabled: true},
		)

		records, err := gateway.Status(ctx, []download.Ref{
			{ID: "nzo_1", Downloader: "sabnzbd"},
			{ID: "ABC", Downloader: "transmission"},
		})

		var unreachable *download.UnreachableError
		require.ErrorAs(t, err, &unreachable)
		assert.ErrorIs(t, err, timeout)
		assert.True(t, unreachable.Unreachable("transmission"))
		assert.False(t, unreachable.Unreachable("sabnzbd"))
		assert.Equal(t, []download.Record{
			{Status: download.Status{ID: "nzo_1", State: download.StateBusy}, Downloader: "sabnzbd"},
		}, records)
	})

	t.Run("no downloaders", func(t *testing.T) {
		records, err := download.NewGateway().Status(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, records)
	})
}

func TestGateway_Cleanup(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	keep := mockClient(ctrl, "keep", download.ProtocolTorrent)
	clean := mockClient(ctrl, "clean", download.ProtocolTorrent)

	gateway := download.NewGateway(
		download.Downloader{Client: keep, Enabled: true},
		download.Downloader{Client: clean, Enabled: true, DeleteFailed: true, RemoveComplete: true, DeleteFiles: false},
	)

	clean.EXPECT().Remove(gomock.Any(), "A", true).Return(nil)
	clean.EXPECT().Remove(gomock.Any(), "B", false).Return(nil)
	keep.EXPECT().Pause(gomock.Any(), "C", true).Return(nil)

	require.NoError(t, gateway.RemoveFailed(ctx, download.Record{Status: download.Status{ID: "A"}, Downloader: "clean"}))
	require.NoError(t, gateway.ProcessComplete(ctx, download.Record{Status: download.Status{ID: "B"}, Downloader: "clean"}))
	require.NoError(t, gateway.RemoveFailed(ctx, download.Record{Status: download.Status{ID: "X"}, Downloader: "keep"}))
	require.NoError(t, gateway.ProcessComplete(ctx, download.Record{Status: download.Status{ID: "Y"}, Downloader: "keep"}))
	require.NoError(t, gateway.Pause(ctx, download.Record{Status: download.Status{ID: "C"}, Downloader: "keep"}, true))

	err := gateway.Pause(ctx, download.Record{Downloader: "gone"}, true)
	assert.ErrorIs(t, err, download.ErrNoDownloader)
}
