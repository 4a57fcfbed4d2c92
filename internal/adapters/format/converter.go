package format

import "github.com/iamNilotpal/rotlog/internal/core/domain"

// ConverterOption selects the parts a TypeConverter prints for a log type.
type ConverterOption uint32

const (
	// UseCircle prints a colored circle, e.g. 🔵 for debug records.
	UseCircle ConverterOption = 1 << iota
	// UseName prints the upper-case type name, e.g. DEBUG.
	UseName
)

// TypeConverter renders a log type as "<name> <circle>".
type TypeConverter struct {
	options ConverterOption
}

// NewTypeConverter creates a converter printing the selected parts.
func NewTypeConverter(options ConverterOption) TypeConverter {
	return TypeConverter{options: options}
}

// DefaultTypeConverter prints both the name and the circle.
func DefaultTypeConverter() TypeConverter {
	return NewTypeConverter(UseName | UseCircle)
}

// String returns the rendered type, or "" if no part is enabled.
func (c TypeConverter) String(t domain.LogType) string {
	name, circle := c.Name(t), c.Circle(t)
	switch {
	case name != "" && circle != "":
		return name + " " + circle
	case name != "":
		return name
	default:
		return circle
	}
}

func (c TypeConverter) Name(t domain.LogType) string {
	if c.options&UseName == 0 {
		return ""
	}
	return t.String()
}

func (c TypeConverter) Circle(t domain.LogType) string {
	if c.options&UseCircle == 0 {
		return ""
	}

	switch t {
	case domain.LogDebug:
		return "🔵"
	case domain.LogInfo, domain.LogDefault:
		return "🟢"
	case domain.LogError:
		return "🟠"
	case domain.LogFault:
		return "🔴"
	default:
		return "🟤"
	}
}
