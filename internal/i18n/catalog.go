// Package i18n loads the prompt translation catalog and resolves catalog
// keys to audio files and fallback text.
//
// Catalogs are YAML documents keyed by locale at the top level, with nested
// maps below it. Leaves are addressed by dotted keys such as
// "voicemail.messages.message_received_on.text". List items are addressed by
// index, so "date.day_names.0" is the first entry of date.day_names.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultFS holds the built-in catalogs.
//
//go:embed locales/*.yml
var DefaultFS embed.FS

// Catalog is an immutable set of translations per locale.
type Catalog struct {
	entries       map[string]map[string]string
	tags          []language.Tag
	matcher       language.Matcher
	defaultLocale language.Tag
}

// LoadDefault returns the built-in catalog. If overrideFile is non-empty its
// entries are merged over the built-in ones.
func LoadDefault(defaultLocale language.Tag, overrideFile string) (*Catalog, error) {
	entries := make(map[string]map[string]string)

	files, err := fs.ReadDir(DefaultFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("reading embedded locales: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	for _, f := range files {
		data, err := fs.ReadFile(DefaultFS, path.Join("locales", f.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading embedded locale %s: %w", f.Name(), err)
		}
		if err := mergeYAML(entries, data); err != nil {
			return nil, fmt.Errorf("parsing embedded locale %s: %w", f.Name(), err)
		}
	}

	if overrideFile != "" {
		data, err := os.ReadFile(overrideFile)
		if err != nil {
			return nil, fmt.Errorf("reading catalog file: %w", err)
		}
		if err := mergeYAML(entries, data); err != nil {
			return nil, fmt.Errorf("parsing catalog file %s: %w", overrideFile, err)
		}
		slog.Info("loaded catalog overrides", "file", overrideFile)
	}

	return newCatalog(entries, defaultLocale)
}

// Parse builds a catalog from a single YAML document.
func Parse(data []byte, defaultLocale language.Tag) (*Catalog, error) {
	entries := make(map[string]map[string]string)
	if err := mergeYAML(entries, data); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return newCatalog(entries, defaultLocale)
}

func newCatalog(entries map[string]map[string]string, defaultLocale language.Tag) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog has no locales")
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	// The default locale goes first so the matcher falls back to it.
	tags := []language.Tag{defaultLocale}
	normalized := make(map[string]map[string]string, len(entries))
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q in catalog: %w", name, err)
		}
		normalized[tag.String()] = entries[name]
		if tag != defaultLocale {
			tags = append(tags, tag)
		}
	}

	return &Catalog{
		entries:       normalized,
		tags:          tags,
		matcher:       language.NewMatcher(tags),
		defaultLocale: defaultLocale,
	}, nil
}

// Locales returns the locales present in the catalog, default first.
func (c *Catalog) Locales() []language.Tag {
	out := make([]language.Tag, len(c.tags))
	copy(out, c.tags)
	return out
}

// DefaultLocale returns the locale used when no better match exists.
func (c *Catalog) DefaultLocale() language.Tag {
	return c.defaultLocale
}

// Lookup returns the translation of key for locale. It tries the exact
// locale, then its base language, then the default locale.
func (c *Catalog) Lookup(locale language.Tag, key string) (string, bool) {
	for _, name := range c.candidates(locale) {
		if v, ok := c.entries[name][key]; ok {
			return v, true
		}
	}
	return "", false
}

// Match returns the catalog locale that best serves the requested one.
func (c *Catalog) Match(locale language.Tag) language.Tag {
	_, idx, conf := c.matcher.Match(locale)
	if conf == language.No {
		return c.defaultLocale
	}
	return c.tags[idx]
}

func (c *Catalog) candidates(locale language.Tag) []string {
	names := []string{locale.String()}
	if base, conf := locale.Base(); conf != language.No && base.String() != locale.String() {
		names = append(names, base.String())
	}
	if matched := c.Match(locale).String(); matched != names[0] {
		names = append(names, matched)
	}
	if def := c.defaultLocale.String(); def != names[len(names)-1] {
		names = append(names, def)
	}
	return names
}

// mergeYAML flattens a locale-keyed YAML document into entries.
func mergeYAML(entries map[string]map[string]string, data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	for locale, tree := range doc {
		flat, ok := entries[locale]
		if !ok {
			flat = make(map[string]string)
			entries[locale] = flat
		}
		if err := flatten(flat, "", tree); err != nil {
			return fmt.Errorf("locale %s: %w", locale, err)
		}
	}
	return nil
}

func flatten(out map[string]string, prefix string, node any) error {
	switch v := node.(type) {
	case map[string]any:
		for k, child := range v {
			if err := flatten(out, joinKey(prefix, k), child); err != nil {
				return err
			}
		}
	case map[any]any:
		for k, child := range v {
			if err := flatten(out, joinKey(prefix, fmt.Sprint(k)), child); err != nil {
				return err
			}
		}
	case []any:
		for i, child := range v {
			if err := flatten(out, joinKey(prefix, strconv.Itoa(i)), child); err != nil {
				return err
			}
		}
	case nil:
		out[prefix] = ""
	case string:
		out[prefix] = v
	case int, int64, float64, bool:
		out[prefix] = fmt.Sprint(v)
	default:
		return fmt.Errorf("unsupported value at %q: %T", prefix, node)
	}
	return nil
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + strings.TrimSpace(key)
}
