// Package cal wires the calendar pipeline: month sequence, grids,
// day classification, layout and rendering.
package cal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/username/termcal/internal/classify"
	"github.com/username/termcal/internal/dates"
	"github.com/username/termcal/internal/grid"
	"github.com/username/termcal/internal/layout"
	"github.com/username/termcal/internal/locale"
	"github.com/username/termcal/internal/reform"
	"github.com/username/termcal/internal/render"
)

const spinnerInterval = 100 * time.Millisecond

// Request describes one calendar to print
type Request struct {
	Mode   layout.Mode
	Anchor grid.YearMonth
	Count  int // months for layout.ModeCount
	Span   bool

	Rule        reform.Rule
	WeekStart   time.Weekday
	WeekNumbers bool
	WeekType    reform.WeekType
	Ordinals    bool
	Vertical    bool
	Columns     layout.Policy
	Width       int // output width for auto columns; 0 = layout.DefaultWidth

	Locale    locale.Table
	Color     bool
	Highlight dates.Date // zero = none
}

// Calendar renders requests. A nil resolver disables day classification
// beyond the weekend default.
type Calendar struct {
	resolver *classify.Resolver
	progress io.Writer
	logger   *zap.Logger
}

// New creates a Calendar. When progress is non-nil a spinner is drawn on it
// while day types load.
func New(resolver *classify.Resolver, progress io.Writer, logger *zap.Logger) *Calendar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calendar{
		resolver: resolver,
		progress: progress,
		logger:   logger,
	}
}

// Lines renders req to text lines without a trailing newline
func (c *Calendar) Lines(ctx context.Context, req Request) ([]string, error) {
	if req.Highlight != (dates.Date{}) {
		if err := dates.Validate(req.Rule, req.Highlight); err != nil {
			return nil, err
		}
	}

	seq, err := layout.Sequence(req.Mode, req.Anchor, req.Count, req.Span)
	if err != nil {
		return nil, err
	}

	gopts := grid.Options{
		WeekStart:   req.WeekStart,
		WeekNumbers: req.WeekNumbers,
		WeekType:    req.WeekType,
		Ordinals:    req.Ordinals,
	}
	months := make([]*grid.Month, 0, len(seq))
	for _, ym := range seq {
		m, err := grid.Build(req.Rule, ym.Year, ym.Month, gopts)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s: %w", ym, err)
		}
		months = append(months, m)
	}

	c.logger.Debug("Rendering calendar",
		zap.Stringer("mode", req.Mode),
		zap.Stringer("reform", req.Rule),
		zap.Stringer("first", seq[0]),
		zap.Int("months", len(seq)))

	table := c.classify(ctx, req.Rule, seq)

	r := render.New(render.Options{
		Locale:      req.Locale,
		WeekStart:   req.WeekStart,
		Color:       req.Color,
		Ordinals:    req.Ordinals,
		WeekNumbers: req.WeekNumbers,
		ShowYear:    req.Mode != layout.ModeYear,
		Vertical:    req.Vertical,
		Highlight:   req.Highlight,
	})

	orientation := layout.Horizontal
	if req.Vertical {
		orientation = layout.Vertical
	}
	gutter := layout.Gutter(req.Mode, orientation)

	width := req.Width
	if width <= 0 {
		width = layout.DefaultWidth
	}
	if req.Vertical {
		// the first block of each row carries the weekday labels
		width -= render.LabelWidth
	}
	cols := req.Columns.Columns(req.Mode, len(months), r.BlockWidth(false), gutter, width)

	lines := r.Grid(layout.Arrange(months, cols, orientation), table, gutter)

	if req.Mode == layout.ModeYear {
		title := render.Center(strconv.Itoa(req.Anchor.Year), render.Width(lines))
		lines = append([]string{strings.TrimRight(title, " "), ""}, lines...)
	}
	return lines, nil
}

// Render writes req to w, one line per row
func (c *Calendar) Render(ctx context.Context, w io.Writer, req Request) error {
	lines, err := c.Lines(ctx, req)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

func (c *Calendar) classify(ctx context.Context, rule reform.Rule, months []grid.YearMonth) *classify.Table {
	if c.resolver == nil {
		return nil
	}
	if c.progress == nil {
		return c.resolver.Resolve(ctx, rule, months)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(c.progress),
		progressbar.OptionSetDescription("Fetching holidays..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()

	table := c.resolver.Resolve(ctx, rule, months)

	close(done)
	<-stopped
	bar.Finish()
	return table
}
