package types

import "strings"

// Symbology names a barcode format reported by the decoder.
type Symbology string

const (
	SymbologyQR      Symbology = "qr"
	SymbologyEAN13   Symbology = "ean13"
	SymbologyEAN8    Symbology = "ean8"
	SymbologyUPCA    Symbology = "upc_a"
	SymbologyUPCE    Symbology = "upc_e"
	SymbologyCode39  Symbology = "code39"
	SymbologyCode128 Symbology = "code128"
)

// DefaultSymbologies is the set the capture surface is configured with.
var DefaultSymbologies = []Symbology{
	SymbologyQR,
	SymbologyEAN13,
	SymbologyEAN8,
	SymbologyUPCA,
	SymbologyUPCE,
	SymbologyCode39,
	SymbologyCode128,
}

// ParseSymbology normalizes a decoder-reported name ("UPC-A", "ean_13").
// Unknown names are returned lower-cased and are never accepted by default.
func ParseSymbology(s string) Symbology {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	switch s {
	case "ean_13":
		return SymbologyEAN13
	case "ean_8":
		return SymbologyEAN8
	case "upca":
		return SymbologyUPCA
	case "upce":
		return SymbologyUPCE
	case "code_39":
		return SymbologyCode39
	case "code_128":
		return SymbologyCode128
	case "qrcode", "qr_code":
		return SymbologyQR
	}
	return Symbology(s)
}
