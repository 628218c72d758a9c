package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/username/termcal/internal/cal"
	"github.com/username/termcal/internal/classify"
	"github.com/username/termcal/internal/config"
	"github.com/username/termcal/internal/dates"
	"github.com/username/termcal/internal/grid"
	"github.com/username/termcal/internal/layout"
	"github.com/username/termcal/internal/locale"
	"github.com/username/termcal/internal/reform"
	"github.com/username/termcal/pkg/dateutil"
)

var logger = zap.NewNop()

type options struct {
	configPath string

	one, three, year, twelve bool
	months                   int
	span                     bool

	vertical    bool
	julian      bool
	weekNumbers bool
	weekType    weekTypeFlag
	columns     columnsFlag
	monday      bool
	sunday      bool
	reform      reformFlag
	iso         bool
	noColor     bool
	holidays    bool

	cfg    *config.Config
	getenv locale.Getenv
	now    func() time.Time
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{
		getenv: os.Getenv,
		now:    time.Now,
	}

	cmd := &cobra.Command{
		Use:   "cal [[day] month] year",
		Short: "Display a calendar",
		Long: `Display a calendar for a month, several months or a year.

A lone 4-digit argument shows that whole year; a month may be given by
number or by name. Day types (working, weekend, shortened, holiday) come
from isdayoff.ru with -H.`,
		Example: `  cal              Current month
  cal -3           Previous, current and next month
  cal 2 2026       February 2026
  cal 2026         Year 2026
  cal -S -n 12     Twelve months centred on the current one
  cal 14 9 1752    September 1752 with the 14th highlighted`,
		Args:          cobra.MaximumNArgs(3),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			if cfg.Log.File != "" {
				logger = initFileLogger(cfg.Log.File, cfg.Log.Level)
			} else {
				logger = initLogger(cfg.Log.Level)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.one, "one", "1", false, "Display a single month")
	flags.BoolVarP(&opts.three, "three", "3", false, "Display the previous, current and next month")
	flags.BoolVarP(&opts.year, "year", "y", false, "Display the whole year")
	flags.BoolVarP(&opts.twelve, "twelve", "Y", false, "Display the next twelve months")
	flags.IntVarP(&opts.months, "months", "n", 1, "Display N months")
	flags.BoolVarP(&opts.span, "span", "S", false, "Centre -n/-Y on the selected month")
	flags.BoolVarP(&opts.vertical, "vertical", "v", false, "Show weeks as columns")
	flags.BoolVarP(&opts.julian, "julian", "j", false, "Show day of year instead of day of month")
	flags.BoolVarP(&opts.weekNumbers, "week-numbers", "w", false, "Show week numbers")
	flags.Var(&opts.weekType, "week-type", "Week numbering: iso or us")
	flags.VarP(&opts.columns, "columns", "c", "Months per row: N or auto")
	flags.BoolVarP(&opts.monday, "monday", "m", false, "Weeks start on Monday")
	flags.BoolVarP(&opts.sunday, "sunday", "s", false, "Weeks start on Sunday")
	flags.Var(&opts.reform, "reform", "Calendar reform: 1752, gregorian, julian or iso")
	flags.BoolVar(&opts.iso, "iso", false, "Alias for --reform iso")
	flags.BoolVar(&opts.noColor, "color", false, "Disable colorized output")
	flags.BoolVarP(&opts.holidays, "holidays", "H", false, "Highlight holidays using isdayoff.ru")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file path")

	cmd.MarkFlagsMutuallyExclusive("year", "twelve", "months")
	cmd.MarkFlagsMutuallyExclusive("monday", "sunday")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	cfg := opts.cfg
	flags := cmd.Flags()

	selector := cfg.Calendar.Reform
	if flags.Changed("reform") {
		selector = opts.reform.selector
	}
	res, err := reform.Resolve(selector, opts.iso)
	if err != nil {
		return err
	}
	rule := res.Rule

	today := todayUnder(rule, dateutil.Today(opts.getenv, opts.now))
	sel, err := parseArgs(args, today)
	if err != nil {
		return err
	}

	highlight := today
	if sel.day != 0 {
		if highlight, err = dates.New(rule, sel.year, sel.month, sel.day); err != nil {
			return err
		}
	}

	weekStart, err := cfg.Calendar.GetWeekStart()
	if err != nil {
		return err
	}
	switch {
	case opts.monday:
		weekStart = time.Monday
	case opts.sunday:
		weekStart = time.Sunday
	}

	weekType := opts.weekType.weekType
	if !flags.Changed("week-type") {
		if weekType, err = reform.ParseWeekType(cfg.Calendar.WeekType); err != nil {
			return err
		}
		if res.PreferISOWeeks {
			weekType = reform.WeekISO
		}
	}

	columns := opts.columns.policy
	if !flags.Changed("columns") {
		if columns, err = layout.ParsePolicy(cfg.Calendar.Columns); err != nil {
			return err
		}
	}

	table, err := locale.Resolve(opts.getenv)
	if err != nil {
		logger.Info("Locale not available, using English", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	req := cal.Request{
		Mode:        selectMode(flags, opts, sel),
		Anchor:      grid.YearMonth{Year: sel.year, Month: sel.month},
		Count:       opts.months,
		Span:        opts.span,
		Rule:        rule,
		WeekStart:   weekStart,
		WeekNumbers: opts.weekNumbers,
		WeekType:    weekType,
		Ordinals:    opts.julian,
		Vertical:    opts.vertical,
		Columns:     columns,
		Width:       terminalWidth(out),
		Locale:      table,
		Color:       cfg.Calendar.Color && !opts.noColor && isTerminal(out),
		Highlight:   highlight,
	}

	var resolver *classify.Resolver
	var progress io.Writer
	if opts.holidays || cfg.Holidays.Enabled {
		source, closeSource := newSource(cmd.Context(), cfg.Holidays)
		defer closeSource()

		resolver = classify.NewResolver(source, cfg.Holidays.Country, cfg.Holidays.GetTimeout(), logger)
		if isTerminal(cmd.ErrOrStderr()) {
			progress = cmd.ErrOrStderr()
		}
	}

	logger.Debug("Calendar request",
		zap.Stringer("mode", req.Mode),
		zap.Stringer("anchor", req.Anchor),
		zap.Stringer("reform", rule),
		zap.Stringer("columns", columns))

	return cal.New(resolver, progress, logger).Render(cmd.Context(), out, req)
}

// selectMode applies year > twelve > three > count > month; a lone year
// argument selects the year view unless -1 is given
func selectMode(flags *pflag.FlagSet, opts *options, sel selection) layout.Mode {
	switch {
	case opts.year:
		return layout.ModeYear
	case opts.twelve:
		return layout.ModeTwelve
	case opts.three:
		return layout.ModeThree
	case flags.Changed("months"):
		return layout.ModeCount
	case opts.one:
		return layout.ModeMonth
	case sel.whole:
		return layout.ModeYear
	default:
		return layout.ModeMonth
	}
}

// todayUnder relabels a Gregorian calendar day under rule
func todayUnder(rule reform.Rule, t time.Time) dates.Date {
	g := dates.Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	n, err := dates.DayNumberOf(reform.Gregorian, g)
	if err != nil {
		return g
	}
	d := dates.FromDayNumber(rule, n)
	if dates.Validate(rule, d) != nil {
		return g
	}
	return d
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
