package domain

// InstrumentType scopes a MIDI profile. A song holds at most one profile per type.
type InstrumentType string

const (
	InstrumentKeyboard InstrumentType = "keyboard"
	InstrumentGuitar   InstrumentType = "guitar"
	InstrumentBass     InstrumentType = "bass"
	InstrumentSynth    InstrumentType = "synth"
	InstrumentCustom   InstrumentType = "custom"
)

// Bank select values the legacy app sent with every program change. They are
// not part of the legacy command string.
const (
	LegacyBankMSB = 0
	LegacyBankLSB = 3
)

// ParseInstrumentType maps a wire value onto a known instrument type.
func ParseInstrumentType(s string) (InstrumentType, bool) {
	switch t := InstrumentType(s); t {
	case InstrumentKeyboard, InstrumentGuitar, InstrumentBass, InstrumentSynth, InstrumentCustom:
		return t, true
	}
	return "", false
}

// MIDIProfile is a program change preset for one instrument.
type MIDIProfile struct {
	ID             string         `json:"id,omitempty"`
	InstrumentType InstrumentType `json:"instrument_type"`
	Channel        int            `json:"channel"`
	ProgramNumber  *int           `json:"program_number,omitempty"`
	BankMSB        *int           `json:"bank_msb,omitempty"`
	BankLSB        *int           `json:"bank_lsb,omitempty"`
	Label          string         `json:"label,omitempty"`
}

// IsActive reports whether the profile would send a program change.
// Inactive profiles are never exported.
func (p MIDIProfile) IsActive() bool {
	return p.ProgramNumber != nil
}

// ValidChannel reports whether c is a MIDI channel number (0-15).
func ValidChannel(c int) bool {
	return c >= 0 && c <= 15
}

// ValidDataByte reports whether v fits a 7-bit MIDI data byte (0-127).
func ValidDataByte(v int) bool {
	return v >= 0 && v <= 127
}
