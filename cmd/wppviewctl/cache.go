package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/matheus3301/wppview/internal/bus"
	"github.com/matheus3301/wppview/internal/cache"
	"github.com/matheus3301/wppview/internal/install"
	"github.com/matheus3301/wppview/internal/lock"
	"github.com/matheus3301/wppview/internal/profile"
	"github.com/matheus3301/wppview/internal/remote"
)

func (e *env) openCache() (*cache.DB, error) {
	if err := profile.EnsureDir(e.profile); err != nil {
		return nil, err
	}
	db, err := cache.Open(profile.CachePath(e.profile))
	if err != nil {
		return nil, err
	}
	if _, err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newInstallCmd(e *env) *cobra.Command {
	var opts install.Options
	cmd := &cobra.Command{
		Use:   "install [proxy-url]",
		Short: "Copy the chat and every media file from a proxy into the cache",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := e.cfg.Remote.URL
			if len(args) == 1 {
				url = args[0]
			}
			if url == "" {
				return fmt.Errorf("no proxy url: pass one or set [remote] url")
			}
			c, err := remote.New(url,
				remote.WithTimeout(time.Duration(e.cfg.Remote.TimeoutSeconds)*time.Second),
				remote.WithLogger(e.log))
			if err != nil {
				return err
			}

			db, err := e.openCache()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			l, err := lock.Acquire(profile.Dir(e.profile), lock.Install, "wppviewctl")
			if err != nil {
				return err
			}
			defer func() { _ = l.Release() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b := bus.New()
			defer b.Close()
			events, cancel := b.Subscribe("install.", 64)
			defer cancel()
			done := make(chan struct{})
			go func() {
				defer close(done)
				printProgress(cmd.ErrOrStderr(), events)
			}()

			res, err := install.New(c, db, b, e.log).Run(ctx, opts)
			cancel()
			<-done
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.ChatID, "id", cache.DefaultChatID, "cache id to install under")
	cmd.Flags().Float64Var(&opts.RatePerSecond, "rate", 8, "media downloads per second (0 for unlimited)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "download media that is already cached")
	cmd.Flags().DurationVar(&opts.Backoff, "backoff", 500*time.Millisecond, "wait before the first retry")
	return cmd
}

func printProgress(w io.Writer, events <-chan bus.Event) {
	for evt := range events {
		switch p := evt.Payload.(type) {
		case install.Started:
			fmt.Fprintf(w, "installing %d media files\n", p.Total)
		case install.Progress:
			if p.Err != nil {
				fmt.Fprintf(w, "[%d/%d] %s: %v\n", p.Done, p.Total, p.Name, p.Err)
			} else {
				fmt.Fprintf(w, "[%d/%d] %s\n", p.Done, p.Total, p.Name)
			}
		}
	}
}

func printResult(w io.Writer, r *install.Result) {
	fmt.Fprintf(w, "Installed %q: %d messages\n", r.ChatName, r.Messages)
	fmt.Fprintf(w, "Media: %d downloaded, %d skipped, %d failed (%s)\n", r.Downloaded, r.Skipped, len(r.Failed), humanBytes(r.Bytes))
	for _, name := range r.Failed {
		fmt.Fprintf(w, "  failed: %s\n", name)
	}
	fmt.Fprintf(w, "Took %s\n", r.Took.Round(time.Millisecond))
}

func newCacheCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the profile cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List cached chats and media usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := e.openCache()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return listCache(cmd.OutOrStdout(), db)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove cached chats and media, keeping stars, renames and prefs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := e.openCache()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			if err := db.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		},
	})
	return cmd
}

func listCache(w io.Writer, db *cache.DB) error {
	chats, err := db.ListChats()
	if err != nil {
		return err
	}
	usage, err := db.Usage()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tMEDIA\tUPDATED")
	for _, c := range chats {
		files, err := db.ListMedia(c.ID)
		if err != nil {
			return err
		}
		updated := time.Unix(c.UpdatedAt, 0).Format("2006-01-02 15:04")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", c.ID, c.Name, humanBytes(int64(c.Size)), len(files), updated)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d chats, %d media files, %s\n", usage.Chats, usage.MediaFiles, humanBytes(usage.MediaBytes))
	return nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func newShareCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "share [proxy-url]",
		Short: "Print a QR code for the proxy URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := e.cfg.Remote.URL
			if len(args) == 1 {
				url = args[0]
			}
			if url == "" {
				return fmt.Errorf("no proxy url: pass one or set [remote] url")
			}
			q, err := qrcode.New(url, qrcode.Medium)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), q.ToSmallString(false))
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}
