package i18n

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// defaultTimeLayout is used when a locale has no "time.formats.default".
const defaultTimeLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

var interpolation = regexp.MustCompile(`%\{(\w+)\}`)

// Resolver implements prompt.LocalizationResolver on top of a Catalog.
type Resolver struct {
	catalog   *Catalog
	audioPath string
}

// NewResolver returns a resolver that prefixes audio entries with
// audioPath/<locale>/.
func NewResolver(catalog *Catalog, audioPath string) *Resolver {
	return &Resolver{
		catalog:   catalog,
		audioPath: strings.TrimRight(audioPath, "/"),
	}
}

// Catalog returns the underlying catalog.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Resolve looks up "<key>.audio" and "<key>.text", both defaulting to
// empty. A non-empty audio entry is returned as audioPath/<locale>/<audio>.
func (r *Resolver) Resolve(key string, locale language.Tag, params map[string]string) (string, string, error) {
	audio, _ := r.catalog.Lookup(locale, key+".audio")
	text, _ := r.catalog.Lookup(locale, key+".text")

	text, err := interpolate(text, params)
	if err != nil {
		return "", "", fmt.Errorf("resolving %s: %w", key, err)
	}
	if audio == "" {
		return "", text, nil
	}
	audio, err = interpolate(audio, params)
	if err != nil {
		return "", "", fmt.Errorf("resolving %s: %w", key, err)
	}
	return r.audioPath + "/" + locale.String() + "/" + audio, text, nil
}

// Translate returns the text for key, or a "translation missing" marker.
func (r *Resolver) Translate(key string, locale language.Tag) string {
	if v, ok := r.catalog.Lookup(locale, key); ok {
		return v
	}
	return MissingTranslation(locale, key)
}

// Placeholders for name elements of a layout. Private-use runes pass through
// time.Format untouched.
const (
	longDayMark    = "\uE000"
	shortDayMark   = "\uE001"
	longMonthMark  = "\uE002"
	shortMonthMark = "\uE003"
)

var nameElements = strings.NewReplacer(
	"Monday", longDayMark,
	"Mon", shortDayMark,
	"January", longMonthMark,
	"Jan", shortMonthMark,
)

// LocalizeTime formats t with the locale's "time.formats.default" layout.
// Day and month names come from the catalog lists "date.day_names",
// "date.abbr_day_names", "date.month_names" and "date.abbr_month_names",
// falling back to the English names.
func (r *Resolver) LocalizeTime(t time.Time, locale language.Tag) string {
	layout, ok := r.catalog.Lookup(locale, "time.formats.default")
	if !ok || layout == "" {
		layout = defaultTimeLayout
	}

	day := strconv.Itoa(int(t.Weekday()))
	month := strconv.Itoa(int(t.Month()))
	names := strings.NewReplacer(
		longDayMark, r.name(locale, "date.day_names."+day, t.Weekday().String()),
		shortDayMark, r.name(locale, "date.abbr_day_names."+day, t.Weekday().String()[:3]),
		longMonthMark, r.name(locale, "date.month_names."+month, t.Month().String()),
		shortMonthMark, r.name(locale, "date.abbr_month_names."+month, t.Month().String()[:3]),
	)
	return names.Replace(t.Format(nameElements.Replace(layout)))
}

func (r *Resolver) name(locale language.Tag, key, fallback string) string {
	if v, ok := r.catalog.Lookup(locale, key); ok && v != "" {
		return v
	}
	return fallback
}

// MissingTranslation is the text returned for keys with no entry.
func MissingTranslation(locale language.Tag, key string) string {
	return "translation missing: " + locale.String() + "." + key
}

// interpolate replaces %{name} placeholders. Placeholders without a
// matching parameter are an error.
func interpolate(s string, params map[string]string) (string, error) {
	var missing []string
	out := interpolation.ReplaceAllStringFunc(s, func(m string) string {
		name := m[2 : len(m)-1]
		v, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("missing interpolation argument %s in %q", strings.Join(missing, ", "), s)
	}
	return out, nil
}
