// File: cmd/elements.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/xkilldash9x/uidriver/internal/driver"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

var errConditionNotMet = errors.New("condition not met")

// addWaitFlags registers the per-call overrides shared by wait-style commands.
func addWaitFlags(fs *pflag.FlagSet) {
	fs.Duration("timeout", 0, "override the default timeout")
	fs.Bool("scroll", false, "scroll down between polls (overrides the default)")
	fs.Bool("all", false, "also match elements that are not visible")
	fs.String("mode", "", "identifier match mode: complete or substring")
	fs.Int("index", 0, "pick the n-th match")
}

// waitOptions turns the flags the user actually set into driver options.
func waitOptions(cmd *cobra.Command) ([]driver.WaitOption, error) {
	fs := cmd.Flags()
	var opts []driver.WaitOption
	if fs.Changed("timeout") {
		d, _ := fs.GetDuration("timeout")
		opts = append(opts, driver.WithTimeout(d))
	}
	if fs.Changed("scroll") {
		b, _ := fs.GetBool("scroll")
		opts = append(opts, driver.WithScroll(b))
	}
	if fs.Changed("all") {
		b, _ := fs.GetBool("all")
		opts = append(opts, driver.WithOnlyVisible(!b))
	}
	if fs.Changed("mode") {
		s, _ := fs.GetString("mode")
		m, err := uitree.ParseMatchMode(s)
		if err != nil {
			return nil, err
		}
		opts = append(opts, driver.WithMatchMode(m))
	}
	if fs.Changed("index") {
		i, _ := fs.GetInt("index")
		opts = append(opts, driver.WithIndex(i))
	}
	return opts, nil
}

type waitFunc func(ctx context.Context, d *driver.Driver, target string, opts []driver.WaitOption) (bool, error)

// newBoolCmd builds a command that runs one boolean facade call on its
// single argument.
func newBoolCmd(use, short, op string, call waitFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			opts, err := waitOptions(cmd)
			if err != nil {
				return err
			}
			var ok bool
			err = withDriver(cmd, func(ctx context.Context, d *driver.Driver) error {
				ok, err = call(ctx, d, args[0], opts)
				return err
			})
			if err != nil {
				return err
			}
			return printResult(cmd, format, op, args[0], ok)
		},
	}
	addWaitFlags(cmd.Flags())
	return cmd
}

func newWaitCmd() *cobra.Command {
	return newBoolCmd("wait <id>", "Wait until an element with the identifier is shown", "wait",
		func(ctx context.Context, d *driver.Driver, id string, opts []driver.WaitOption) (bool, error) {
			return d.WaitForElementByID(ctx, id, opts...)
		})
}

func newVanishCmd() *cobra.Command {
	return newBoolCmd("vanish <id>", "Wait until no element with the identifier is shown", "vanish",
		func(ctx context.Context, d *driver.Driver, id string, opts []driver.WaitOption) (bool, error) {
			return d.WaitForElementVanishByID(ctx, id, opts...)
		})
}

func newTextCmd() *cobra.Command {
	var (
		minMatches int
		vanish     bool
	)
	cmd := newBoolCmd("text <text>", "Wait until the text is shown, or with --vanish until it is gone", "text",
		func(ctx context.Context, d *driver.Driver, text string, opts []driver.WaitOption) (bool, error) {
			if vanish {
				return d.WaitForTextVanish(ctx, text, minMatches, opts...)
			}
			return d.WaitForText(ctx, text, minMatches, opts...)
		})
	cmd.Flags().IntVar(&minMatches, "min", 1, "minimum number of matching elements")
	cmd.Flags().BoolVar(&vanish, "vanish", false, "wait for the text to disappear")
	return cmd
}

func newClickCmd() *cobra.Command {
	var byText bool
	cmd := newBoolCmd("click <id|text>", "Click the element with the identifier, or with --text the element showing the text", "click",
		func(ctx context.Context, d *driver.Driver, target string, opts []driver.WaitOption) (bool, error) {
			if byText {
				return d.ClickOnText(ctx, target, opts...)
			}
			return d.ClickByID(ctx, target, opts...)
		})
	cmd.Flags().BoolVar(&byText, "text", false, "match on visible text instead of the identifier")
	return cmd
}

func newTabCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tab <tab-bar> <item>",
		Short: "Click an item of a tab bar, both 0-based",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bar, item, err := twoInts(args)
			if err != nil {
				return err
			}
			return withDriver(cmd, func(ctx context.Context, d *driver.Driver) error {
				return d.ClickOnTab(ctx, bar, item)
			})
		},
	}
}

func newCheckCmd() *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "check <index>",
		Short: "Set the checked state of the n-th checkable element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}
			return withDriver(cmd, func(ctx context.Context, d *driver.Driver) error {
				return d.SetCheckedState(ctx, index, !off)
			})
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "uncheck instead of check")
	return cmd
}

func newListCmd() *cobra.Command {
	var listIndex int
	var noScroll bool
	cmd := &cobra.Command{
		Use:   "list <line>",
		Short: "Click a row (1-based) of a list and print the texts it holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			line, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid line %q: %w", args[0], err)
			}
			var texts []uitree.Element
			err = withDriver(cmd, func(ctx context.Context, d *driver.Driver) error {
				texts, err = d.ClickInList(ctx, line, listIndex, driver.WithScroll(!noScroll))
				return err
			})
			if err != nil {
				return err
			}
			if texts == nil {
				return fmt.Errorf("list %d line %d: %w", listIndex, line, errConditionNotMet)
			}
			return printElements(cmd.OutOrStdout(), format, texts)
		},
	}
	cmd.Flags().IntVar(&listIndex, "list", 0, "which list on the page, 0-based")
	cmd.Flags().BoolVar(&noScroll, "no-scroll", false, "do not scroll when the row is not rendered")
	return cmd
}

func newDiffCmd() *cobra.Command {
	var settle time.Duration
	var byText bool
	cmd := &cobra.Command{
		Use:   "diff <id|text>",
		Short: "Click an element and list the elements that appeared as a result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			var added []uitree.Element
			err = withDriver(cmd, func(ctx context.Context, d *driver.Driver) error {
				if err := d.BeginNewElements(ctx); err != nil {
					return err
				}
				var clicked bool
				if byText {
					clicked, err = d.ClickOnText(ctx, args[0])
				} else {
					clicked, err = d.ClickByID(ctx, args[0])
				}
				if err != nil {
					return err
				}
				if !clicked {
					return fmt.Errorf("click %s: %w", args[0], errConditionNotMet)
				}
				if err := sleepCtx(ctx, settle); err != nil {
					return err
				}
				added, _, err = d.EndNewElements(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return printElements(cmd.OutOrStdout(), format, added)
		},
	}
	cmd.Flags().DurationVar(&settle, "settle", 500*time.Millisecond, "time to let the page react before the second snapshot")
	cmd.Flags().BoolVar(&byText, "text", false, "match on visible text instead of the identifier")
	return cmd
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func twoInts(args []string) (int, int, error) {
	a, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q: %w", args[0], err)
	}
	b, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q: %w", args[1], err)
	}
	return a, b, nil
}

func newDumpCmd() *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "List the elements of the current page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			var els []uitree.Element
			err = withDriver(cmd, func(ctx context.Context, d *driver.Driver) error {
				if text != "" {
					els, err = d.FindElementsByText(ctx, text)
					return err
				}
				snap, err := d.Snapshot(ctx)
				els = snap.Elements
				return err
			})
			if err != nil {
				return err
			}
			return printElements(cmd.OutOrStdout(), format, els)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "only list elements whose text contains this")
	return cmd
}
