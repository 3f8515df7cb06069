package domain

import "time"

// SetlistExport is the version-independent in-memory shape of an exported
// setlist. Every schema version decodes into it.
type SetlistExport struct {
	Version    int
	ID         string
	Name       string
	Event      string
	Venue      string
	EventDate  *time.Time
	Notes      string
	CreatedAt  time.Time
	ModifiedAt time.Time
	Songs      []IncomingSong
}

// IncomingSong describes a song referenced by a remote setlist before it is
// matched against the local library.
type IncomingSong struct {
	ID            string
	Title         string
	FileName      string
	FileExtension string
	Artist        string
	Key           string
	Tempo         *int
	Notes         string
	PageCount     *int
	FileData      []byte

	MIDIProfiles []MIDIProfile
	// MIDICommand is the unparsed legacy command string, if any.
	MIDICommand string

	AnnotationProfiles []AnnotationProfile
}

// FullFileName returns the base name joined with the extension.
func (s IncomingSong) FullFileName() string {
	return JoinFileName(s.FileName, s.FileExtension)
}
