package cmd

import (
	"context"
	"fmt"

	"github.com/kasuboski/snatcher/config"
	"github.com/kasuboski/snatcher/pkg/download"
	mhttp "github.com/kasuboski/snatcher/pkg/http"
	mio "github.com/kasuboski/snatcher/pkg/io"
	"github.com/kasuboski/snatcher/pkg/library"
	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/kasuboski/snatcher/pkg/manager"
	"github.com/kasuboski/snatcher/pkg/marker"
	"github.com/kasuboski/snatcher/pkg/notify"
	"github.com/kasuboski/snatcher/pkg/storage"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app is every component the commands share, wired from the configuration
type app struct {
	cfg      config.Config
	store    storage.Storage
	library  *library.Library
	manager  *manager.ReleaseManager
	registry *prometheus.Registry
	closers  []func()
}

func loadConfig() (config.Config, error) {
	cfg, err := config.New(viper.GetViper())
	if err != nil {
		return cfg, fmt.Errorf("failed to read configurations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func newApp(ctx context.Context) (*app, error) {
	log := logger.FromCtx(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store, err := sqlite.New(ctx, cfg.Storage.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage connection: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, func() { store.Close() })

	if err := store.RunMigrations(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	httpClient := mhttp.NewRetryClient()

	gateway, err := newGateway(cfg.Downloaders, httpClient)
	if err != nil {
		a.close()
		return nil, err
	}

	fileIO := &mio.OSFileSystem{}
	markers := marker.New(fileIO)

	a.library = library.New(library.Config{
		Enabled:     cfg.Library.Enabled,
		IncomingDir: cfg.Library.IncomingDir,
		MovieDir:    cfg.Library.MovieDir,
		FileAction:  library.FileAction(cfg.Library.FileAction),
	}, fileIO, markers)

	notifiers := notify.Multi{notify.Log{}}
	if cfg.Notify.NATS.URL != "" {
		nc, err := notify.Connect(ctx, cfg.Notify.NATS.URL, cfg.Notify.NATS.Name)
		if err != nil {
			log.Warnw("release events will not be published", zap.Error(err))
		} else {
			notifiers = append(notifiers, notify.NewNATS(nc))
			a.closers = append(a.closers, func() { nc.Drain() })
		}
	}

	a.manager = manager.New(store, gateway, a.library, markers, notifiers,
		manager.WithNextOnFailed(cfg.Manager.NextOnFailed),
		manager.WithMissingTimeout(cfg.Manager.MissingTimeout),
		manager.WithCleanDoneAge(cfg.Manager.CleanDoneAge),
		manager.WithLockFile(cfg.Manager.LockFile),
		manager.WithRegistry(a.registry),
		manager.WithFetch(manager.NewURLFetch(httpClient)),
		manager.WithFileIO(fileIO),
	)

	a.library.SetResolver(a.manager.Resolve)
	a.library.OnOrganized(a.manager.Organized)

	return a, nil
}

func newGateway(configs []config.Downloader, httpClient mhttp.HTTPClient) (*download.ClientGateway, error) {
	downloaders := make([]download.Downloader, 0, len(configs))
	for _, c := range configs {
		if c.Scheme == "" {
			c.Scheme = "http"
		}

		client, err := download.NewClient(download.ClientConfig{
			Name:           c.Name,
			Implementation: c.Implementation,
			Scheme:         c.Scheme,
			Host:           c.Host,
			Port:           c.Port,
			APIKey:         c.APIKey,
			Category:       c.Category,
			DownloadDir:    c.DownloadDir,
			MountPrefix:    c.MountPrefix,
		}, httpClient)
		if err != nil {
			return nil, err
		}

		downloaders = append(downloaders, download.Downloader{
			Client:         client,
			Enabled:        c.Enabled,
			Manual:         c.Manual,
			DeleteFailed:   c.DeleteFailed,
			RemoveComplete: c.RemoveComplete,
			DeleteFiles:    c.DeleteFiles,
		})
	}

	return download.NewGateway(downloaders...), nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
