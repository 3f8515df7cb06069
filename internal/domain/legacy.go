package domain

// LegacySetlist is a songlist decoded from the predecessor app's archive format.
// It exists only between decoding and import; it is never persisted.
type LegacySetlist struct {
	Name  string       `json:"name"`
	ID    int64        `json:"id"`
	Songs []LegacySong `json:"songs"`
}

// LegacySong is one entry of a legacy songlist. MIDICommands is the raw
// "<channel>-<program>" or "<program>" string, left unparsed.
type LegacySong struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	File         []byte `json:"-"`
	MIDICommands string `json:"midi_commands,omitempty"`
}

// HasFile reports whether the archive embedded the song's document.
func (s LegacySong) HasFile() bool {
	return len(s.File) > 0
}
