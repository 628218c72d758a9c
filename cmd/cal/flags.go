package main

import (
	"github.com/username/termcal/internal/layout"
	"github.com/username/termcal/internal/reform"
)

// columnsFlag parses --columns N|auto
type columnsFlag struct {
	policy layout.Policy
}

func (f *columnsFlag) String() string {
	return f.policy.String()
}

func (f *columnsFlag) Set(s string) error {
	p, err := layout.ParsePolicy(s)
	if err != nil {
		return err
	}
	f.policy = p
	return nil
}

func (f *columnsFlag) Type() string {
	return "N|auto"
}

// reformFlag parses --reform; the selector is resolved once flags and
// config are merged
type reformFlag struct {
	selector string
}

func (f *reformFlag) String() string {
	return f.selector
}

func (f *reformFlag) Set(s string) error {
	if _, err := reform.Resolve(s, false); err != nil {
		return err
	}
	f.selector = s
	return nil
}

func (f *reformFlag) Type() string {
	return "1752|gregorian|julian|iso"
}

// weekTypeFlag parses --week-type
type weekTypeFlag struct {
	weekType reform.WeekType
}

func (f *weekTypeFlag) String() string {
	return f.weekType.String()
}

func (f *weekTypeFlag) Set(s string) error {
	wt, err := reform.ParseWeekType(s)
	if err != nil {
		return err
	}
	f.weekType = wt
	return nil
}

func (f *weekTypeFlag) Type() string {
	return "iso|us"
}
