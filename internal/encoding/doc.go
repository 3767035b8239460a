// Package encoding packs archive payloads: float64 columns as fixed-width words
// and channel names as length-prefixed strings.
package encoding
