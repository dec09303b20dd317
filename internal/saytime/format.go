// Package saytime expands timestamps and digit strings into sequences of
// Asterisk-style sound names ("digits/day-1", "digits/20", "digits/p-m").
//
// Formats use the SayUnixTime directive letters:
//
//	A a     day of week
//	B b h   month name
//	d e     day of month (ordinal)
//	Y       year
//	I l     hour, 12-hour clock
//	H k     hour, 24-hour clock
//	M       minute
//	P p     AM / PM
//	Q       "today", "yesterday" or A B d Y
//	q       "" (today), "yesterday", day of week within the last week, or A B d Y
//	R       H M
//	'name'  literal sound file
//
// Spaces separate directives and are otherwise ignored.
package saytime

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultFormat is the format used by the voicemail intro when none is
// configured.
const DefaultFormat = "Q 'digits/at' IMp"

// Sound is one sound file name with the text it stands for.
type Sound struct {
	Name string
	Text string
}

// Token is a parsed format element: either a directive letter or a literal
// sound name.
type Token struct {
	Directive rune
	Literal   string
}

// Parse splits a format string into tokens.
func Parse(format string) ([]Token, error) {
	var tokens []Token
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t':
			continue
		case r == '\'':
			end := i + 1
			for end < len(runes) && runes[end] != '\'' {
				end++
			}
			if end >= len(runes) {
				return nil, fmt.Errorf("unterminated literal at offset %d in %q", i, format)
			}
			if end > i+1 {
				tokens = append(tokens, Token{Literal: string(runes[i+1 : end])})
			}
			i = end
		case isDirective(r):
			tokens = append(tokens, Token{Directive: r})
		default:
			return nil, fmt.Errorf("unknown format directive %q in %q", r, format)
		}
	}
	return tokens, nil
}

func isDirective(r rune) bool {
	switch r {
	case 'A', 'a', 'B', 'b', 'h', 'd', 'e', 'Y', 'I', 'l', 'H', 'k', 'M', 'P', 'p', 'Q', 'q', 'R':
		return true
	}
	return false
}

// ExpandTime renders t according to format. now is used for the relative
// directives Q and q.
func ExpandTime(t, now time.Time, format string) ([]Sound, error) {
	tokens, err := Parse(format)
	if err != nil {
		return nil, err
	}
	var out []Sound
	for _, tok := range tokens {
		out = append(out, expandToken(tok, t, now)...)
	}
	return out, nil
}

// ExpandDigits returns one sound per digit in digits. Non-digit characters
// are skipped.
func ExpandDigits(digits string) []Sound {
	out := make([]Sound, 0, len(digits))
	for _, d := range digits {
		if d < '0' || d > '9' {
			continue
		}
		out = append(out, Sound{Name: "digits/" + string(d), Text: string(d)})
	}
	return out
}

func expandToken(tok Token, t, now time.Time) []Sound {
	if tok.Literal != "" {
		return []Sound{{Name: tok.Literal}}
	}

	switch tok.Directive {
	case 'A', 'a':
		return []Sound{{Name: fmt.Sprintf("digits/day-%d", int(t.Weekday())), Text: t.Weekday().String()}}
	case 'B', 'b', 'h':
		return []Sound{{Name: fmt.Sprintf("digits/mon-%d", int(t.Month())-1), Text: t.Month().String()}}
	case 'd', 'e':
		return Ordinal(t.Day())
	case 'Y':
		return Number(t.Year())
	case 'I', 'l':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return Number(h)
	case 'H':
		if t.Hour() < 10 {
			return append([]Sound{{Name: "digits/oh", Text: "oh"}}, Number(t.Hour())...)
		}
		return Number(t.Hour())
	case 'k':
		return Number(t.Hour())
	case 'M':
		return minute(t.Minute())
	case 'P', 'p':
		if t.Hour() < 12 {
			return []Sound{{Name: "digits/a-m", Text: "AM"}}
		}
		return []Sound{{Name: "digits/p-m", Text: "PM"}}
	case 'Q':
		return relativeDay(t, now, false)
	case 'q':
		return relativeDay(t, now, true)
	case 'R':
		return append(expandToken(Token{Directive: 'H'}, t, now), minute(t.Minute())...)
	}
	return nil
}

func minute(m int) []Sound {
	switch {
	case m == 0:
		return []Sound{{Name: "digits/oclock", Text: "o'clock"}}
	case m < 10:
		return append([]Sound{{Name: "digits/oh", Text: "oh"}}, Number(m)...)
	default:
		return Number(m)
	}
}

func relativeDay(t, now time.Time, withinWeek bool) []Sound {
	days := daysBetween(t, now.In(t.Location()))

	switch {
	case days == 0 && withinWeek:
		return nil
	case days == 0:
		return []Sound{{Name: "digits/today", Text: "today"}}
	case days == 1:
		return []Sound{{Name: "digits/yesterday", Text: "yesterday"}}
	case withinWeek && days > 1 && days < 7:
		return expandToken(Token{Directive: 'A'}, t, now)
	}

	var out []Sound
	for _, d := range []rune{'A', 'B', 'd', 'Y'} {
		out = append(out, expandToken(Token{Directive: d}, t, now)...)
	}
	return out
}

// daysBetween counts calendar days from a to b. Dates are compared in UTC so
// a local day shortened or lengthened by a DST change still counts as one.
func daysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay).Hours() / 24)
}

// Number returns the sounds for a non-negative integer.
func Number(n int) []Sound {
	if n < 0 {
		return append([]Sound{{Name: "digits/minus", Text: "minus"}}, Number(-n)...)
	}
	var out []Sound
	if n >= 1000000 {
		out = append(out, Number(n/1000000)...)
		out = append(out, Sound{Name: "digits/million", Text: "million"})
		n %= 1000000
		if n == 0 {
			return out
		}
	}
	if n >= 1000 {
		out = append(out, Number(n/1000)...)
		out = append(out, Sound{Name: "digits/thousand", Text: "thousand"})
		n %= 1000
		if n == 0 {
			return out
		}
	}
	if n >= 100 {
		out = append(out, digit(n/100), Sound{Name: "digits/hundred", Text: "hundred"})
		n %= 100
		if n == 0 {
			return out
		}
	}
	if n < 20 {
		return append(out, digit(n))
	}
	out = append(out, digit(n-n%10))
	if n%10 != 0 {
		out = append(out, digit(n%10))
	}
	return out
}

// Ordinal returns the sounds for an ordinal such as a day of the month.
func Ordinal(n int) []Sound {
	if n <= 20 || n%10 == 0 {
		return []Sound{{Name: "digits/h-" + strconv.Itoa(n), Text: strconv.Itoa(n)}}
	}
	return []Sound{
		digit(n - n%10),
		{Name: "digits/h-" + strconv.Itoa(n%10), Text: strconv.Itoa(n % 10)},
	}
}

func digit(n int) Sound {
	s := strconv.Itoa(n)
	return Sound{Name: "digits/" + s, Text: s}
}
