/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/Seednode/maboulbox/games/maboul/sound"
	"github.com/Seednode/maboulbox/players"
	"github.com/Seednode/maboulbox/scores"
	"github.com/Seednode/maboulbox/terminal"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	tableHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Padding(0, 1)
	tableMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
)

const leaderboardSize = 10

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func newScoresCmd(cfg *Config) *cobra.Command {
	var game string
	var limit int

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Print the leaderboard.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := scores.ParseFilter(game)
			if err != nil {
				return err
			}

			store, err := cfg.openScores()
			if err != nil {
				return err
			}
			defer closeStore(cfg, store)

			recs, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			return writeLeaderboard(cmd.OutOrStdout(), scores.Top(recs, limit), time.Now(), isTerminal(os.Stdout))
		},
	}

	cmd.Flags().StringVarP(&game, "game", "g", "", "only show one game (maboul, andrea)")
	cmd.Flags().IntVarP(&limit, "limit", "n", leaderboardSize, "number of rows, negative for all")

	return cmd
}

func leaderboardRows(recs []scores.Record, now time.Time) [][]string {
	rows := make([][]string, 0, len(recs))
	for i, r := range recs {
		game := r.Game
		if game == "" {
			game = scores.GameMaboul
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			runewidth.Truncate(r.Name, 24, "…"),
			game,
			r.Summary(),
			r.Ago(now),
		})
	}
	return rows
}

func writeLeaderboard(w io.Writer, recs []scores.Record, now time.Time, styled bool) error {
	headers := []string{"#", "NAME", "GAME", "RESULT", "WHEN"}
	rows := leaderboardRows(recs, now)

	if !styled {
		var b strings.Builder
		b.WriteString(strings.Join(headers, "\t"))
		b.WriteString("\n")
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteString("\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 4:
				return tableMutedStyle
			}
			return tableCellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func newSoundsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "sounds DIR",
		Short: "Write the feedback cues as wav files.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := sound.Export(args[0])
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			logf(cfg, "SOUND: Wrote %d cue(s) to %s", len(paths), args[0])
			return nil
		},
	}
}

func newPlayCmd(cfg *Config) *cobra.Command {
	var first, last string
	var mute bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the extraction game in this terminal.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			player, err := players.New(first, last)
			if err != nil {
				return err
			}
			return playTerminal(cmd.Context(), cfg, player, mute)
		},
	}

	cmd.Flags().StringVar(&first, "first-name", "", "player first name")
	cmd.Flags().StringVar(&last, "last-name", "", "player last name")
	cmd.Flags().BoolVar(&mute, "mute", false, "use the terminal bell instead of the sound device")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")

	return cmd
}

func playTerminal(ctx context.Context, cfg *Config, player maboul.Player, mute bool) error {
	catalog, err := cfg.challenges()
	if err != nil {
		return err
	}

	store, err := cfg.openScores()
	if err != nil {
		return err
	}
	defer closeStore(cfg, store)

	if err := players.CheckAvailable(ctx, store, player, func(format string, args ...any) { logf(cfg, format, args...) }); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var sinks []maboul.Sink
	if !mute {
		spk, err := sound.OpenSpeaker(func(format string, args ...any) { logf(cfg, format, args...) })
		if err == nil {
			defer spk.Close()
			sinks = append(sinks, spk)
		}
	}

	lookup := maboul.PlayerFunc(func() (maboul.Player, bool) { return player, true })
	host, err := terminal.New(screen, lookup, terminal.Options{
		Session: maboul.Options{
			Config:    cfg.engine(),
			Catalog:   catalog,
			Submitter: scores.Submitter(store),
			Seed:      time.Now().UnixNano(),
		},
		Sinks: sinks,
		Logf:  func(format string, args ...any) { logf(cfg, format, args...) },
	})
	if err != nil {
		return err
	}
	defer host.Close()

	return host.Run(ctx)
}

func closeStore(cfg *Config, store io.Closer) {
	if err := store.Close(); err != nil {
		logf(cfg, "ERROR: Closing score store: %v", err)
	}
}
