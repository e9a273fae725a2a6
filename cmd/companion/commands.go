package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taiwoajasa245/verse-companion/internal/catalog"
	"github.com/taiwoajasa245/verse-companion/internal/explain"
	"github.com/taiwoajasa245/verse-companion/internal/proxy"
	"github.com/taiwoajasa245/verse-companion/internal/reader"
	"github.com/taiwoajasa245/verse-companion/internal/store"
)

func printVerse(w io.Writer, v store.Verse) {
	fmt.Fprintf(w, "%s (%s)\n  %s\n", v.Reference, strings.ToUpper(v.Translation), v.Text)
}

func (c *cli) catalogVerse(arg string) (store.Verse, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return store.Verse{}, fmt.Errorf("catalog id must be a number, got %q", arg)
	}
	return c.app.Reader.CatalogVerse(id)
}

func dailyCmd(c *cli) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show the verse of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var v store.Verse
			if refresh {
				v = c.app.Reader.RefreshDailyVerse()
			} else {
				v = c.app.Reader.DailyVerse()
			}
			printVerse(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "pick a new verse")
	return cmd
}

func searchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the verse catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Reader.Search(strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Results) == 0 {
				fmt.Fprintf(out, "No verses match %q.\n", result.Query)
				return nil
			}
			for _, v := range result.Results {
				fmt.Fprintf(out, "[%s] ", v.ID)
				printVerse(out, v)
			}
			return nil
		},
	}
}

func historyCmd(c *cli) *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if clearAll {
				c.app.Reader.ClearHistory()
				fmt.Fprintln(out, "Search history cleared.")
				return nil
			}

			history := c.app.Reader.History()
			if len(history) == 0 {
				fmt.Fprintln(out, "No recent searches.")
				return nil
			}
			for i, q := range history {
				fmt.Fprintf(out, "%2d. %s\n", i+1, q)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "clear the search history")
	return cmd
}

func savedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List saved verses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			saved := c.app.Reader.Saved()
			if len(saved) == 0 {
				fmt.Fprintln(out, "No saved verses yet.")
				return nil
			}
			for _, v := range saved {
				fmt.Fprintf(out, "[%s]\n  %s\n", v.ID, v.Text)
			}
			return nil
		},
	}
}

func saveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "save <catalog-id>",
		Short: "Save a catalog verse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.catalogVerse(args[0])
			if err != nil {
				return err
			}
			id, err := c.app.Reader.Save(v)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", id)
			return nil
		},
	}
}

func unsaveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "unsave <verse-id>",
		Short: "Remove a saved verse by its id, e.g. \"John 3:16-kjv\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.Join(args, " ")
			c.app.Reader.Unsave(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
			return nil
		},
	}
}

func toggleCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <catalog-id>",
		Short: "Save or unsave a catalog verse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.catalogVerse(args[0])
			if err != nil {
				return err
			}
			saved, err := c.app.Reader.ToggleSaved(v)
			if err != nil {
				return err
			}

			state := "Removed"
			if saved {
				state = "Saved"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, store.DeriveID(v.Reference, v.Translation))
			return nil
		},
	}
}

func translationCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "translation [code]",
		Short: "Show or change the preferred translation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				t := c.app.Reader.Translation()
				fmt.Fprintf(out, "%s (%s)\n", t.Name, t.ID)
				return nil
			}

			t, err := c.app.Reader.SetTranslation(args[0])
			if err != nil {
				if errors.Is(err, reader.ErrUnknownTranslation) {
					return fmt.Errorf("%w (run `companion translations` for the list)", err)
				}
				return err
			}
			fmt.Fprintf(out, "Changed to %s\n", t.Name)
			return nil
		},
	}
}

func translationsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "translations",
		Short: "List available translations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := c.app.Reader.Translation().ID
			for _, t := range c.app.Reader.Translations() {
				marker := " "
				if t.ID == current {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-6s %s\n", marker, t.ID, t.Name)
			}
			return nil
		},
	}
}

func explainCmd(c *cli) *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "explain <catalog-id>",
		Short: "Ask the chat assistant to explain a verse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.catalogVerse(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if printOnly {
				fmt.Fprintln(out, c.app.Reader.ExplainURL(v.Reference, v.Text))
				return nil
			}

			target, err := c.app.Reader.Explain(cmd.Context(), v.Reference, v.Text)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), explain.FailureMessage)
				fmt.Fprintln(out, target)
				return err
			}
			fmt.Fprintf(out, "Opened %s\n", target)
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the link instead of opening a browser")
	return cmd
}

func printChapter(w io.Writer, v reader.ChapterView) {
	fmt.Fprintf(w, "%s %d (%s)  %d / %d\n", v.Book.Name, v.Chapter, v.Translation, v.Chapter, v.Book.Chapters)
}

func booksCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List the books that can be read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, b := range c.app.Reader.Books() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-12s %3d chapters\n", b.ID, b.Name, b.Chapters)
			}
			return nil
		},
	}
}

func readCmd(c *cli) *cobra.Command {
	var next, prev bool
	cmd := &cobra.Command{
		Use:   "read [book] [chapter]",
		Short: "Open a chapter, optionally stepping to the next or previous one",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := c.app.Reader
			if len(args) > 0 {
				chapter := 1
				if len(args) == 2 {
					n, err := strconv.Atoi(args[1])
					if err != nil {
						return fmt.Errorf("chapter must be a number, got %q", args[1])
					}
					chapter = n
				}
				if _, err := r.OpenChapter(strings.ToLower(args[0]), chapter); err != nil {
					if errors.Is(err, catalog.ErrUnknownBook) {
						return fmt.Errorf("%w (run `companion books` for the list)", err)
					}
					return err
				}
			}

			v := r.Reading()
			switch {
			case next:
				if !v.HasNext {
					fmt.Fprintln(cmd.ErrOrStderr(), "Already at the last chapter.")
				}
				v = r.NextChapter()
			case prev:
				if !v.HasPrev {
					fmt.Fprintln(cmd.ErrOrStderr(), "Already at the first chapter.")
				}
				v = r.PrevChapter()
			}
			printChapter(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().BoolVar(&next, "next", false, "step to the following chapter")
	cmd.Flags().BoolVar(&prev, "prev", false, "step to the previous chapter")
	cmd.MarkFlagsMutuallyExclusive("next", "prev")
	return cmd
}

func askCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Look up a passage on bible-api.com",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			passage, err := c.app.Bible.Lookup(cmd.Context(), question)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), proxy.Answer(passage))
			return nil
		},
	}
}

func stateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the full store state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c.app.Reader.State())
		},
	}
}
