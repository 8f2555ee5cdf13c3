package serializer

import "fmt"

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// SupportedFormats lists the accepted formats.
func SupportedFormats() []string {
	return []string{string(FormatYAML), string(FormatJSON)}
}

// IsUnknown reports whether the format is not supported.
func (f Format) IsUnknown() bool {
	return f != FormatJSON && f != FormatYAML
}

// ParseFormat validates s as a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %v", s, SupportedFormats())
	}
	return f, nil
}
