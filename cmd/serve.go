package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/kasuboski/snatcher/pkg/manager"
	"github.com/kasuboski/snatcher/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the release api and scheduled jobs",
	Long:  `start the release api and the scheduled check_snatched and clean_done jobs`,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.Get()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = logger.WithCtx(ctx, log)

		a, err := newApp(ctx)
		if err != nil {
			log.Fatalw("failed to start", zap.Error(err))
		}
		defer a.close()

		scheduler := manager.NewScheduler(a.manager.Jobs(a.cfg.Manager.CheckSnatched, a.cfg.Manager.CleanDone)...)
		srv := server.New(log, a.manager, a.registry)

		group, ctx := errgroup.WithContext(ctx)
		group.Go(func() error {
			return scheduler.Start(ctx)
		})
		group.Go(func() error {
			return srv.Serve(ctx, a.cfg.Server.Port)
		})

		if err := group.Wait(); err != nil {
			log.Errorw("server stopped", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
