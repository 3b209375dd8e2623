package importer

import "strings"

// normalizeHeader folds a raw CSV header into the shape the alias tables
// use: lowercase, BOM stripped, runs of spaces, hyphens and slashes
// collapsed to single underscores, surrounding underscores trimmed.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.ToLower(strings.TrimSpace(h))
	var b strings.Builder
	b.Grow(len(h))
	pendingSep := false
	for _, r := range h {
		switch {
		case r == ' ' || r == '-' || r == '/' || r == '_' || r == '.':
			pendingSep = true
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			// Drop punctuation like parens and question marks.
		}
	}
	return b.String()
}

// AutoDetectMappings proposes a source column for every target field of the
// kind. Exact alias matches win over containment matches, and the first
// unclaimed header wins within each tier. Unmatched targets come back with
// an empty Source so the caller can surface them for manual mapping.
func AutoDetectMappings(kind Kind, headers []string) []FieldMapping {
	specs := targetFieldsByKind[kind]
	aliases := fieldAliases[kind]

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	claimed := make(map[int]bool, len(headers))
	mappings := make([]FieldMapping, 0, len(specs))

	match := func(target string, exact bool) string {
		for i, nh := range normalized {
			if claimed[i] || nh == "" {
				continue
			}
			for _, alias := range aliases[target] {
				if nh == alias || (!exact && strings.Contains(nh, alias)) {
					claimed[i] = true
					return headers[i]
				}
			}
		}
		return ""
	}

	for _, spec := range specs {
		src := match(spec.Field, true)
		if src == "" {
			src = match(spec.Field, false)
		}
		mappings = append(mappings, FieldMapping{Source: src, Target: spec.Field})
	}
	return mappings
}
