package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/match"
	"github.com/matheus3301/wppview/internal/pipeline"
	"github.com/matheus3301/wppview/internal/search"
)

func (e *env) load(chatPath, mediaDir string) (*pipeline.Session, error) {
	l := pipeline.NewLoader(pipeline.Options{Policy: match.ParsePolicy(e.cfg.Media.Fallback)}, nil, nil, e.log)
	return l.LoadLocal(chatPath, mediaDir)
}

func newParseCmd(e *env) *cobra.Command {
	var mediaDir string
	cmd := &cobra.Command{
		Use:   "parse <chat.txt>",
		Short: "Parse an export and print its stats and participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.load(args[0], mediaDir)
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVar(&mediaDir, "media", "", "folder holding the exported media files")
	return cmd
}

func printSession(w io.Writer, s *pipeline.Session) {
	fmt.Fprintf(w, "Chat:         %s\n", s.Name)
	fmt.Fprintf(w, "Fingerprint:  %s\n", s.ChatID)
	fmt.Fprintf(w, "Messages:     %d\n", s.Stats.Total)
	fmt.Fprintf(w, "Media:        %d placeholders, %d exact, %d nearby day, %d unmatched\n",
		s.Report.Placeholders, s.Report.Exact, s.Report.Uncertain, s.Report.Unmatched)
	if s.Index != nil {
		fmt.Fprintf(w, "Media files:  %d indexed of %d provided\n", s.Index.Indexed(), s.Index.Provided())
	}
	fmt.Fprintf(w, "Love words:   %d amour, %d laughs, %d i love you\n", s.Stats.Amour, s.Stats.Laughs, s.Stats.ILoveYou)

	fmt.Fprintln(w, "\nParticipants:")
	names := append([]string(nil), s.Participants...)
	sort.SliceStable(names, func(i, j int) bool {
		return s.Stats.PerSender[names[i]] > s.Stats.PerSender[names[j]]
	})
	for _, p := range names {
		fmt.Fprintf(w, "  %-24s %d\n", p, s.Stats.PerSender[p])
	}
}

func newSearchCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <chat.txt> <query>",
		Short: "List the messages whose text or date contains query",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.load(args[0], "")
			if err != nil {
				return err
			}
			res := search.Search(s.Messages, strings.Join(args[1:], " "))
			printMatches(cmd.OutOrStdout(), s.Messages, res, limit)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most n matches (0 for all)")
	return cmd
}

func printMatches(w io.Writer, msgs []chat.Message, res search.Result, limit int) {
	for i, idx := range res.Matches {
		if limit > 0 && i >= limit {
			fmt.Fprintf(w, "... %d more\n", res.Count()-limit)
			break
		}
		m := msgs[idx]
		fmt.Fprintf(w, "#%-6d %s %s %s: %s\n", idx+1, m.Date, m.Time, m.Sender, strings.ReplaceAll(m.Text, "\n", " "))
	}
	fmt.Fprintf(w, "%d matches for %q\n", res.Count(), res.Query)
}

func newMediaDebugCmd(e *env) *cobra.Command {
	var mediaDir string
	cmd := &cobra.Command{
		Use:   "media-debug <chat.txt> <message-number>",
		Short: "Explain how the media of one message was matched",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("message number %q: %w", args[1], err)
			}
			s, err := e.load(args[0], mediaDir)
			if err != nil {
				return err
			}
			d, err := match.Diagnose(s.Messages, s.Index, n-1)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&mediaDir, "media", "", "folder holding the exported media files")
	return cmd
}
