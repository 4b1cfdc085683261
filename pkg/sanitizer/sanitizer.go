package sanitizer

import (
	"net/url"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func lower(s string) string {
	return strings.ToLower(s)
}

// SanitizeDisplayName normalizes user-facing names (hotel names, addresses,
// room numbers): whitespace only, original casing kept.
func SanitizeDisplayName(input string) string {
	return TrimAndNormalize(input)
}

// SanitizeCity normalizes city names for case-insensitive matching.
func SanitizeCity(input string) string {
	p := Pipeline{
		TrimAndNormalize,
		lower,
	}
	return p.Apply(input)
}

// SanitizeAmenity normalizes a single amenity tag.
func SanitizeAmenity(input string) string {
	p := Pipeline{
		TrimAndNormalize,
		lower,
	}
	return p.Apply(input)
}

// SanitizeSlice applies a strategy to each element, dropping empties and
// duplicates while preserving first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

// SanitizeURL canonicalizes an image URL: scheme defaulted to https,
// leading www. and trailing slashes stripped, utm_* query params removed.
// Returns "" for anything that does not parse to a host.
func SanitizeURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Host = strings.ToLower(u.Host)
	if after, ok := strings.CutPrefix(u.Host, "www."); ok {
		u.Host = after
	}
	u.Path = strings.TrimSuffix(strings.TrimSpace(u.Path), "/")

	q := u.Query()
	qClean := url.Values{}
	for k, v := range q {
		key := strings.TrimSpace(strings.ToLower(k))
		if strings.HasPrefix(key, "utm_") {
			continue
		}
		for _, val := range v {
			value := strings.TrimSpace(val)
			if value != "" {
				qClean.Add(key, value)
			}
		}
	}
	u.RawQuery = qClean.Encode()

	return u.String()
}
