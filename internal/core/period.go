package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type (
	// YearMonth is one calendar month, the budget period.
	YearMonth struct {
		Year  int
		Month time.Month
	}

	// MonthRange is an inclusive range of months. A zero bound is open.
	MonthRange struct {
		From YearMonth
		To   YearMonth
	}

	// DateRange is an inclusive range of calendar dates. A zero bound is
	// open. Only the date part of From and To is used.
	DateRange struct {
		From time.Time
		To   time.Time
	}

	// Limit caps the number of listed rows. Unlimited lists everything.
	Limit int
)

// Unlimited is the "all rows" sentinel; SQLite treats LIMIT -1 as no limit.
const Unlimited Limit = -1

// NewYearMonth builds and validates a period.
func NewYearMonth(year, month int) (YearMonth, error) {
	ym := YearMonth{Year: year, Month: time.Month(month)}
	if err := ym.Validate(); err != nil {
		return YearMonth{}, err
	}
	return ym, nil
}

// YearMonthOf returns the month t falls in.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) Validate() error {
	if ym.Month < time.January || ym.Month > time.December {
		return fmt.Errorf("%w %d", ErrInvalidMonth, int(ym.Month))
	}
	if ym.Year < 1 || ym.Year > 9999 {
		return fmt.Errorf("%w %d", ErrInvalidYear, ym.Year)
	}
	return nil
}

// IsZero reports whether ym is the open-bound zero value.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Start is the first instant of the month.
func (ym YearMonth) Start() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.Local)
}

// End is the first instant of the following month (exclusive bound).
// time.Date normalizes month 13 into January of the next year.
func (ym YearMonth) End() time.Time {
	return time.Date(ym.Year, ym.Month+1, 1, 0, 0, 0, 0, time.Local)
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	return YearMonthOf(ym.End())
}

// Key orders months across years: 2024-03 -> 202403.
func (ym YearMonth) Key() int {
	return ym.Year*100 + int(ym.Month)
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

func (ym *YearMonth) UnmarshalText(b []byte) error {
	v, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = v
	return nil
}

// ParseYearMonth reads "2024-03" (or "2024-3").
func ParseYearMonth(s string) (YearMonth, error) {
	year, month, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return YearMonth{}, Validationf("period %q must look like YYYY-MM", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w %q", ErrInvalidYear, year)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w %q", ErrInvalidMonth, month)
	}
	return NewYearMonth(y, m)
}

// ParseMonthBound reads a range bound. An empty string is an open bound and
// a bare year means January for a lower bound and December for an upper one.
func ParseMonthBound(s string, upper bool) (YearMonth, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return YearMonth{}, nil
	}
	if !strings.Contains(s, "-") {
		y, err := strconv.Atoi(s)
		if err != nil {
			return YearMonth{}, fmt.Errorf("%w %q", ErrInvalidYear, s)
		}
		if upper {
			return NewYearMonth(y, 12)
		}
		return NewYearMonth(y, 1)
	}
	return ParseYearMonth(s)
}

func (r MonthRange) Validate() error {
	if !r.From.IsZero() {
		if err := r.From.Validate(); err != nil {
			return err
		}
	}
	if !r.To.IsZero() {
		if err := r.To.Validate(); err != nil {
			return err
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.From.Key() > r.To.Key() {
		return Validationf("month range %s..%s is reversed", r.From, r.To)
	}
	return nil
}

// Keys returns the inclusive Key bounds with open ends widened.
func (r MonthRange) Keys() (lo, hi int) {
	lo, hi = 0, 999999
	if !r.From.IsZero() {
		lo = r.From.Key()
	}
	if !r.To.IsZero() {
		hi = r.To.Key()
	}
	return lo, hi
}

// ParseDate reads a YYYY-MM-DD calendar date; empty means open.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: want YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// ParseDateRange reads both bounds of a DateRange.
func ParseDateRange(from, to string) (DateRange, error) {
	f, err := ParseDate(from)
	if err != nil {
		return DateRange{}, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return DateRange{}, err
	}
	r := DateRange{From: f, To: t}
	return r, r.Validate()
}

func (r DateRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && dayStart(r.From).After(dayStart(r.To)) {
		return Validationf("date range %s..%s is reversed",
			r.From.Format(DateLayout), r.To.Format(DateLayout))
	}
	return nil
}

// Bounds returns the half-open storage bounds [lo, hi). Open ends are "".
func (r DateRange) Bounds() (lo, hi string) {
	if !r.From.IsZero() {
		lo = FormatTimestamp(dayStart(r.From))
	}
	if !r.To.IsZero() {
		hi = FormatTimestamp(dayStart(r.To).AddDate(0, 0, 1))
	}
	return lo, hi
}

// Months returns the months touched by the range.
func (r DateRange) Months() MonthRange {
	var mr MonthRange
	if !r.From.IsZero() {
		mr.From = YearMonthOf(r.From)
	}
	if !r.To.IsZero() {
		mr.To = YearMonthOf(r.To)
	}
	return mr
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// ParseLimit reads a row limit; "all" and "*" mean Unlimited.
func ParseLimit(s string) (Limit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" || s == "*" {
		return Unlimited, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidLimit, s)
	}
	l := Limit(n)
	return l, l.Validate()
}

func (l Limit) Validate() error {
	if l < 0 && l != Unlimited {
		return fmt.Errorf("%w %d", ErrInvalidLimit, int(l))
	}
	return nil
}

// IsUnlimited reports whether l is the "all rows" sentinel.
func (l Limit) IsUnlimited() bool {
	return l == Unlimited
}
