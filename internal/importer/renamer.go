package importer

import (
	"fmt"
	"regexp"
	"strconv"
)

// Default naming templates.
const (
	DefaultBookTemplate   = "{author}/{title}/{author} - {title} - {quality}.{ext}"
	DefaultSeriesTemplate = "{author}/{series}/{part:02} - {title}/{author} - {title} - {quality}.{ext}"
)

// Renamer applies naming templates to generate file paths relative to the
// author's root folder.
type Renamer struct {
	bookTemplate   string
	seriesTemplate string
}

// NewRenamer creates a new Renamer with the given templates.
// Empty strings use default templates.
func NewRenamer(bookTemplate, seriesTemplate string) *Renamer {
	if bookTemplate == "" {
		bookTemplate = DefaultBookTemplate
	}
	if seriesTemplate == "" {
		seriesTemplate = DefaultSeriesTemplate
	}
	return &Renamer{
		bookTemplate:   bookTemplate,
		seriesTemplate: seriesTemplate,
	}
}

// BookPath generates the relative path for a standalone book file.
func (r *Renamer) BookPath(author, title, quality, ext string) string {
	vars := map[string]any{
		"author":  SanitizeFilename(author),
		"title":   SanitizeFilename(title),
		"quality": quality,
		"ext":     ext,
	}
	return applyTemplate(r.bookTemplate, vars)
}

// SeriesPath generates the relative path for a book that belongs to a series.
func (r *Renamer) SeriesPath(author, series string, part int, title, quality, ext string) string {
	vars := map[string]any{
		"author":  SanitizeFilename(author),
		"series":  SanitizeFilename(series),
		"part":    part,
		"title":   SanitizeFilename(title),
		"quality": quality,
		"ext":     ext,
	}
	return applyTemplate(r.seriesTemplate, vars)
}

// formatPattern matches {name} or {name:02} style placeholders.
var formatPattern = regexp.MustCompile(`\{(\w+)(?::(\d+))?\}`)

// applyTemplate substitutes variables into a template string.
// Supports {name} for simple substitution and {name:02} for zero-padded integers.
func applyTemplate(template string, vars map[string]any) string {
	return formatPattern.ReplaceAllStringFunc(template, func(match string) string {
		parts := formatPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		val, ok := vars[name]
		if !ok {
			return match
		}

		if len(parts) >= 3 && parts[2] != "" {
			width, err := strconv.Atoi(parts[2])
			if err == nil {
				switch v := val.(type) {
				case int:
					return fmt.Sprintf("%0*d", width, v)
				case int64:
					return fmt.Sprintf("%0*d", width, v)
				}
			}
		}

		return fmt.Sprintf("%v", val)
	})
}
