package domain

import (
	"path/filepath"
	"strings"
)

// Song is a local library entry as consumed by the sync engine. The id space is
// local to one device; FileName plus FileExtension is the cross-device key.
type Song struct {
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

	// Flat MIDI fields predate profiles and mirror the keyboard profile.
	MIDIChannel       *int
	MIDIProgramNumber *int
	MIDIBankMSB       *int
	MIDIBankLSB       *int

	MIDIProfiles       []MIDIProfile
	AnnotationProfiles []AnnotationProfile
}

// FullFileName returns the base name joined with the extension.
func (s *Song) FullFileName() string {
	return JoinFileName(s.FileName, s.FileExtension)
}

// MIDIProfile returns the profile for the given instrument type.
func (s *Song) MIDIProfile(instrument InstrumentType) (MIDIProfile, bool) {
	for _, p := range s.MIDIProfiles {
		if p.InstrumentType == instrument {
			return p, true
		}
	}
	return MIDIProfile{}, false
}

// SetMIDIProfile stores p, replacing any profile of the same instrument type.
// The replaced profile's id is kept when p carries none.
func (s *Song) SetMIDIProfile(p MIDIProfile) {
	if p.InstrumentType == "" {
		p.InstrumentType = InstrumentKeyboard
	}

	replaced := false
	for i, existing := range s.MIDIProfiles {
		if existing.InstrumentType != p.InstrumentType {
			continue
		}
		if p.ID == "" {
			p.ID = existing.ID
		}
		s.MIDIProfiles[i] = p
		replaced = true
		break
	}
	if !replaced {
		s.MIDIProfiles = append(s.MIDIProfiles, p)
	}

	if p.InstrumentType == InstrumentKeyboard {
		s.MIDIChannel = IntPtr(p.Channel)
		s.MIDIProgramNumber = copyInt(p.ProgramNumber)
		s.MIDIBankMSB = copyInt(p.BankMSB)
		s.MIDIBankLSB = copyInt(p.BankLSB)
	}
}

// ActiveMIDIProfiles returns the profiles that carry a program number.
func (s *Song) ActiveMIDIProfiles() []MIDIProfile {
	var active []MIDIProfile
	for _, p := range s.MIDIProfiles {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// JoinFileName builds "<base>.<ext>", or just base when ext is empty.
func JoinFileName(base, ext string) string {
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// SplitFileName splits "Song.pdf" into ("Song", "pdf"). Dot-files and names
// without a dot have no extension.
func SplitFileName(name string) (base, ext string) {
	dotExt := filepath.Ext(name)
	if dotExt == "" || dotExt == name {
		return name, ""
	}
	return strings.TrimSuffix(name, dotExt), dotExt[1:]
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	return IntPtr(*v)
}
