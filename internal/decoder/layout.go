package decoder

import (
	"errors"
	"strings"
)

var errEmptyLayout = errors.New("empty date format")

// Layout converts a date pattern such as "yyyy-MM-dd" or "M_d_yy" into a Go
// time layout. A format that already contains the Go reference year is
// returned unchanged.
//
// Underscores become spaces: "_2" is a layout element in Go and cannot be
// escaped. parseDate applies the same substitution to values.
func Layout(format string) (string, error) {
	format = strings.TrimSpace(format)
	if format == "" {
		return "", errEmptyLayout
	}

	if strings.Contains(format, "2006") {
		return format, nil
	}

	var b strings.Builder
	runes := []rune(format)

	for i := 0; i < len(runes); {
		c := runes[i]

		if c == '\'' || c == '"' {
			end := i + 1
			for end < len(runes) && runes[end] != c {
				end++
			}
			b.WriteString(string(runes[i+1 : min(end, len(runes))]))
			i = end + 1
			continue
		}

		n := 1
		for i+n < len(runes) && runes[i+n] == c {
			n++
		}

		if tok, ok := token(c, n); ok {
			b.WriteString(tok)
		} else {
			b.WriteString(string(runes[i : i+n]))
		}
		i += n
	}

	return strings.ReplaceAll(b.String(), "_", " "), nil
}

func token(c rune, n int) (string, bool) {
	switch c {
	case 'y':
		if n <= 2 {
			return "06", true
		}
		return "2006", true
	case 'M':
		switch n {
		case 1:
			return "1", true
		case 2:
			return "01", true
		case 3:
			return "Jan", true
		default:
			return "January", true
		}
	case 'd':
		switch n {
		case 1:
			return "2", true
		case 2:
			return "02", true
		case 3:
			return "Mon", true
		default:
			return "Monday", true
		}
	case 'H':
		return "15", true
	case 'h':
		if n == 1 {
			return "3", true
		}
		return "03", true
	case 'm':
		if n == 1 {
			return "4", true
		}
		return "04", true
	case 's':
		if n == 1 {
			return "5", true
		}
		return "05", true
	case 't':
		return "PM", true
	}

	return "", false
}
