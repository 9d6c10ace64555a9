package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "inspect and manage releases",
}

var releaseListCmd = &cobra.Command{
	Use:   "list <media id>",
	Short: "list the releases of a media item, best first",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(ctx context.Context, a *app, args []string) error {
		mediaID, err := parseID(args[0])
		if err != nil {
			return err
		}

		releases, err := a.manager.ForMedia(ctx, mediaID)
		if err != nil {
			return err
		}

		title := cases.Title(language.English)
		rows := make([][]string, 0, len(releases))
		for _, r := range releases {
			info, _ := r.ParsedInfo()
			size := "-"
			if info.Size() > 0 {
				size = humanize.Bytes(info.Size())
			}
			rows = append(rows, []string{
				strconv.Itoa(int(r.ID)),
				title.String(string(r.Status)),
				r.Quality,
				info.Name(),
				size,
				humanize.Ftoa(info.Score()),
				humanize.Time(r.LastEdit),
			})
		}

		printTable([]string{"ID", "Status", "Quality", "Name", "Size", "Score", "Updated"}, rows, 0, 4, 5)
		return nil
	}),
}

var releaseHistoryCmd = &cobra.Command{
	Use:   "history <release id>",
	Short: "show the status history of a release",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(ctx context.Context, a *app, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		transitions, err := a.manager.History(ctx, id)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(transitions))
		for _, t := range transitions {
			at := "-"
			if t.CreatedAt != nil {
				at = humanize.Time(*t.CreatedAt)
			}
			rows = append(rows, []string{t.ToState, strconv.FormatBool(t.MostRecent), at})
		}

		printTable([]string{"Status", "Current", "At"}, rows)
		return nil
	}),
}

var releaseDownloadCmd = &cobra.Command{
	Use:   "download <release id>",
	Short: "send a release to a downloader by hand",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(ctx context.Context, a *app, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ok, err := a.manager.ManualDownload(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("release %d was not sent to any downloader", id)
		}
		fmt.Printf("release %d snatched\n", id)
		return nil
	}),
}

var releaseIgnoreCmd = &cobra.Command{
	Use:   "ignore <release id>",
	Short: "toggle the ignored status of a release",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(ctx context.Context, a *app, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		status, err := a.manager.Ignore(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("release %d is now %s\n", id, status)
		return nil
	}),
}

var releaseDeleteCmd = &cobra.Command{
	Use:   "delete <release id>",
	Short: "delete a release and its history",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(ctx context.Context, a *app, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return a.manager.Delete(ctx, id)
	}),
}

var releaseCleanCmd = &cobra.Command{
	Use:   "clean <release id>",
	Short: "drop files that no longer exist from a release",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(ctx context.Context, a *app, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return a.manager.Clean(ctx, id)
	}),
}

var releaseCheckCmd = &cobra.Command{
	Use:   "check-snatched",
	Short: "reconcile snatched releases with the downloaders once",
	Args:  cobra.NoArgs,
	Run: withApp(func(ctx context.Context, a *app, _ []string) error {
		return a.manager.CheckSnatched(ctx)
	}),
}

var releaseCleanDoneCmd = &cobra.Command{
	Use:   "clean-done",
	Short: "remove old releases of finished media",
	Args:  cobra.NoArgs,
	Run: withApp(func(ctx context.Context, a *app, _ []string) error {
		return a.manager.CleanDone(ctx)
	}),
}

// withApp builds the application for a one shot command and tears it down after
func withApp(run func(ctx context.Context, a *app, args []string) error) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		log := logger.Get()
		ctx := logger.WithCtx(cmd.Context(), log)

		a, err := newApp(ctx)
		if err != nil {
			log.Fatalw("failed to start", zap.Error(err))
		}

		err = run(ctx, a, args)
		a.close()
		if err != nil {
			log.Fatalw("command failed", "command", cmd.CommandPath(), zap.Error(err))
		}
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func init() {
	releaseCmd.AddCommand(
		releaseListCmd,
		releaseHistoryCmd,
		releaseDownloadCmd,
		releaseIgnoreCmd,
		releaseDeleteCmd,
		releaseCleanCmd,
		releaseCheckCmd,
		releaseCleanDoneCmd,
	)
	rootCmd.AddCommand(releaseCmd)
}
