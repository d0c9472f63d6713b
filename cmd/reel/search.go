package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pders01/reel/internal/coordinator"
	"github.com/pders01/reel/internal/tmdb"
	"github.com/pders01/reel/internal/tui"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var page int
	var plain bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Print one page of TMDB search results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.TrimSpace(strings.Join(args, " "))
			if q == "" {
				return fmt.Errorf("%s", tui.MsgBlankQuery)
			}
			if page < 1 {
				return fmt.Errorf("--page must be at least 1, got %d", page)
			}

			client, err := opts.newClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.cfg.TMDB.RequestTimeout())
			defer cancel()

			result, err := client.SearchMovies(ctx, q, page)
			if err != nil {
				return fmt.Errorf("search %q: %w", q, err)
			}

			out := cmd.OutOrStdout()
			if !plain {
				plain = !isTerminal(out)
			}
			if plain {
				return writePlain(out, result)
			}
			return writeTable(out, q, result)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page (1-based)")
	cmd.Flags().BoolVar(&plain, "plain", false, "tab-separated output even on a terminal")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writePlain(w io.Writer, result *tmdb.SearchPage) error {
	for _, m := range result.Results {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\n", m.ID, m.DisplayTitle(), m.Year(), m.VoteAverage); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, q string, result *tmdb.SearchPage) error {
	if len(result.Results) == 0 {
		_, err := fmt.Fprintln(w, coordinator.MsgNoResults)
		return err
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(tui.PrimaryColor)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.SecondaryColor)).
		Headers("ID", "TITLE", "YEAR", "RATING").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, m := range result.Results {
		t.Row(strconv.FormatInt(m.ID, 10), m.DisplayTitle(), m.Year(), fmt.Sprintf("%.1f", m.VoteAverage))
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, tui.MsgSearchSummary(q, result.TotalResults, result.Page, result.TotalPages))
	return err
}
