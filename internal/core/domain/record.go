package domain

const (
	// DefaultSeparator is printed between the items of a record.
	DefaultSeparator = " "
	// DefaultTerminator is printed after the last item of a record.
	DefaultTerminator = "\n"
)

// Metadata describes where a record comes from and how its items are joined.
type Metadata struct {
	// Category groups messages of one subsystem, e.g. "network" or "db".
	// Engines substitute their default category when it is empty.
	Category string

	// Type is the severity of the record.
	Type LogType

	// Separator is printed between items. Empty means DefaultSeparator.
	Separator string

	// Terminator is printed after all items. Empty means DefaultTerminator.
	Terminator string

	// File and Line locate the call site that produced the record.
	File string
	Line int
}

// WithDefaults returns a copy of m with empty joiners replaced by the defaults.
func (m Metadata) WithDefaults() Metadata {
	if m.Separator == "" {
		m.Separator = DefaultSeparator
	}
	if m.Terminator == "" {
		m.Terminator = DefaultTerminator
	}
	return m
}
