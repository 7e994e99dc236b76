package service

import "strings"

// Normalizer maps a decoded payload to an index key.  An empty result means
// the payload cannot match anything.
type Normalizer func(payload string) string

// PassThrough is the baseline policy: the payload is the key.
func PassThrough(payload string) string { return payload }

// TrimSpace drops surrounding whitespace some 1D scanners append.
func TrimSpace(payload string) string { return strings.TrimSpace(payload) }

// TrimUpper trims and upper-cases, for snapshots keyed by upper-case tags.
func TrimUpper(payload string) string { return strings.ToUpper(strings.TrimSpace(payload)) }

// NormalizerByName returns the named policy, falling back to PassThrough.
func NormalizerByName(name string) Normalizer {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trim":
		return TrimSpace
	case "trim-upper", "trim_upper":
		return TrimUpper
	default:
		return PassThrough
	}
}
