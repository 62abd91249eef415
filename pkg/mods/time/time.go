// Package time exposes clock and calendar functionality as an installable
// pyrite module.
package time

import (
	"fmt"
	"strings"
	"time"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
)

// Ns is the namespace bound by install_('time').
var Ns = func() *eval.Ns {
	now := time.Now()
	zoneName, zoneOffset := now.Zone()
	return eval.NsBuilder{}.
		AddReadOnly("timezone_", -zoneOffset).
		AddReadOnly("tzname_", vals.Tuple{zoneName, zoneName}).
		AddReadOnly("daylight_", 0).
		AddGoFns(map[string]any{
			"time_":      unixNow,
			"monotonic_": monotonic,
			"sleep_":     sleep,
			"ctime_":     ctime,
			"asctime_":   asctime,
			"gmtime_":    gmtime,
			"localtime_": localtime,
			"mktime_":    mktime,
			"strftime_":  strftime,
			"strptime_":  strptime,
		}).Ns()
}()

func unixNow() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

var monotonicStart = time.Now()

func monotonic() float64 {
	return time.Since(monotonicStart).Seconds()
}

// sleep waits in short slices so that Engine.Abort interrupts it promptly.
func sleep(fm *eval.Frame, seconds float64) error {
	if seconds < 0 {
		return errs.New(errs.Value, "sleep length must be non-negative")
	}
	deadline := time.Now().Add(time.Duration(seconds * float64(time.Second)))
	for {
		if fm.Engine().Aborted() {
			return errs.New(errs.Runtime, "execution interrupted")
		}
		left := time.Until(deadline)
		if left <= 0 {
			return nil
		}
		if left > 10*time.Millisecond {
			left = 10 * time.Millisecond
		}
		time.Sleep(left)
	}
}

// structTime converts a Time to the 9-tuple of Python's time module:
// (year, month, day, hour, minute, second, weekday, yearday, isdst).
// Weekday counts Monday as 0.
func structTime(t time.Time) vals.Tuple {
	wday := (int(t.Weekday()) + 6) % 7
	return vals.Tuple{
		t.Year(), int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		wday, t.YearDay(), 0,
	}
}

// timeArg interprets the optional seconds-since-epoch argument shared by
// ctime, gmtime and localtime.
func timeArg(name string, args []float64) (time.Time, error) {
	switch len(args) {
	case 0:
		return time.Now(), nil
	case 1:
		sec, frac := int64(args[0]), args[0]-float64(int64(args[0]))
		return time.Unix(sec, int64(frac*1e9)), nil
	default:
		return time.Time{}, errs.ArityMismatch{
			What: "arguments to " + name, ValidLow: 0, ValidHigh: 1, Actual: len(args)}
	}
}

func ctime(args ...float64) (string, error) {
	t, err := timeArg("ctime_", args)
	if err != nil {
		return "", err
	}
	return t.Local().Format("Mon Jan  2 15:04:05 2006"), nil
}

func asctime(tup vals.Tuple) (string, error) {
	t, err := fromStructTime(tup)
	if err != nil {
		return "", err
	}
	return t.Format("Mon Jan  2 15:04:05 2006"), nil
}

func gmtime(args ...float64) (vals.Tuple, error) {
	t, err := timeArg("gmtime_", args)
	if err != nil {
		return nil, err
	}
	return structTime(t.UTC()), nil
}

func localtime(args ...float64) (vals.Tuple, error) {
	t, err := timeArg("localtime_", args)
	if err != nil {
		return nil, err
	}
	return structTime(t.Local()), nil
}

func fromStructTime(tup vals.Tuple) (time.Time, error) {
	if len(tup) < 6 {
		return time.Time{}, errs.Newf(errs.Type,
			"struct time must have at least 6 elements, got %d", len(tup))
	}
	nums := make([]int, 6)
	for i := 0; i < 6; i++ {
		n, ok := tup[i].(int)
		if !ok {
			return time.Time{}, errs.Newf(errs.Type,
				"struct time element %d must be int, but is %s", i+1, vals.Kind(tup[i]))
		}
		nums[i] = n
	}
	return time.Date(nums[0], time.Month(nums[1]), nums[2],
		nums[3], nums[4], nums[5], 0, time.Local), nil
}

func mktime(tup vals.Tuple) (float64, error) {
	t, err := fromStructTime(tup)
	if err != nil {
		return 0, err
	}
	return float64(t.Unix()), nil
}

// Translation of the supported strftime directives to Go layout elements.
var directives = map[byte]string{
	'Y': "2006", 'y': "06", 'm': "01", 'd': "02",
	'H': "15", 'M': "04", 'S': "05",
	'a': "Mon", 'A': "Monday", 'b': "Jan", 'B': "January",
	'p': "PM", 'z': "-0700", 'Z': "MST",
}

// strftime formats directive by directive. Literal text never passes
// through Time.Format, where digits would be misread as layout elements.
func strftime(format string, tup vals.Tuple) (string, error) {
	t, err := fromStructTime(tup)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", errs.New(errs.Value, "format ends with a lone '%'")
		}
		d := format[i]
		if layout, ok := directives[d]; ok {
			sb.WriteString(t.Format(layout))
			continue
		}
		switch d {
		case '%':
			sb.WriteByte('%')
		case 'j':
			fmt.Fprintf(&sb, "%03d", t.YearDay())
		case 'w':
			// %w counts Sunday as 0, unlike the struct-time weekday.
			fmt.Fprint(&sb, int(t.Weekday()))
		default:
			return "", errs.Newf(errs.Value, "unsupported directive %%%c", d)
		}
	}
	return sb.String(), nil
}

// parseLayout translates a format to a single Go layout for parsing.
// Computed directives (%j, %w) cannot be parsed; literal digits in the
// format are rejected for the same layout-element reason as above.
func parseLayout(format string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			if c >= '0' && c <= '9' {
				return "", errs.New(errs.Value,
					"literal digits in the format are not supported")
			}
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", errs.New(errs.Value, "format ends with a lone '%'")
		}
		d := format[i]
		if layout, ok := directives[d]; ok {
			sb.WriteString(layout)
			continue
		}
		if d == '%' {
			sb.WriteByte('%')
			continue
		}
		return "", errs.Newf(errs.Value, "unsupported directive %%%c", d)
	}
	return sb.String(), nil
}

func strptime(value, format string) (vals.Tuple, error) {
	layout, err := parseLayout(format)
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return nil, errs.Newf(errs.Value,
			"time data %q does not match format %q", value, format)
	}
	return structTime(t), nil
}
