// Package sanitizer normalizes free-text input before validation and
// persistence: whitespace collapsing for display fields, lowercasing for
// searchable fields, deduplication for tag-like slices and a conservative
// URL cleanup for image links.
package sanitizer
