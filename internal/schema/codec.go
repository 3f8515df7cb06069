// Package schema encodes setlists into the JSON export format and decodes
// every published version of it.
package schema

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jaki95/setlist-sync/internal/domain"
)

// CurrentVersion is written by Encode.
const CurrentVersion = 4

// ContentType of encoded exports.
const ContentType = "application/json"

const (
	keyVersion      = "version"
	keySongs        = "songs"
	keyDateCreated  = "dateCreated"
	keyDateModified = "dateModified"
	keyEventDate    = "eventDate"
)

type wireSetlist struct {
	Version      int        `json:"version"`
	Name         string     `json:"name"`
	ID           string     `json:"id"`
	Event        string     `json:"event"`
	Venue        string     `json:"venue"`
	EventDate    string     `json:"eventDate,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	DateCreated  string     `json:"dateCreated"`
	DateModified string     `json:"dateModified"`
	Songs        []wireSong `json:"songs"`
}

type wireSong struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	FileName      string `json:"fileName"`
	FileExtension string `json:"fileExtension"`
	Artist        string `json:"artist,omitempty"`
	Key           string `json:"key,omitempty"`
	Tempo         *int   `json:"tempo,omitempty"`
	Notes         string `json:"notes,omitempty"`
	PageCount     *int   `json:"pageCount,omitempty"`
	FileData      string `json:"fileData,omitempty"`

	MIDIProfiles      []wireMIDIProfile `json:"midiProfiles,omitempty"`
	MIDIChannel       *int              `json:"midiChannel,omitempty"`
	MIDIProgramNumber *int              `json:"midiProgramNumber,omitempty"`
	MIDIBankMSB       *int              `json:"midiBankMSB,omitempty"`
	MIDIBankLSB       *int              `json:"midiBankLSB,omitempty"`

	AnnotationProfiles []wireAnnotationProfile `json:"annotationProfiles,omitempty"`
}

type wireMIDIProfile struct {
	ID             string `json:"id,omitempty"`
	InstrumentType string `json:"instrumentType"`
	Channel        int    `json:"channel"`
	ProgramNumber  int    `json:"programNumber"`
	BankMSB        *int   `json:"bankMSB,omitempty"`
	BankLSB        *int   `json:"bankLSB,omitempty"`
	Label          string `json:"label,omitempty"`
}

type wireAnnotationProfile struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	OwnerName   string           `json:"ownerName,omitempty"`
	IsDefault   bool             `json:"isDefault"`
	CreatedAt   string           `json:"createdAt,omitempty"`
	ModifiedAt  string           `json:"modifiedAt,omitempty"`
	Annotations []wireAnnotation `json:"annotations"`
}

type wireAnnotation struct {
	ID         string  `json:"id"`
	PageIndex  int     `json:"pageIndex"`
	RelativeX  float64 `json:"relativeX"`
	RelativeY  float64 `json:"relativeY"`
	Text       string  `json:"text"`
	Color      string  `json:"color"`
	FontSize   string  `json:"fontSize"`
	IsBold     bool    `json:"isBold"`
	CreatedAt  string  `json:"createdAt,omitempty"`
	ModifiedAt string  `json:"modifiedAt,omitempty"`
}

// Encode renders export in the current schema version.
func Encode(export *domain.SetlistExport) ([]byte, error) {
	w := wireSetlist{
		Version:      CurrentVersion,
		Name:         export.Name,
		ID:           export.ID,
		Event:        export.Event,
		Venue:        export.Venue,
		Notes:        export.Notes,
		DateCreated:  formatTime(export.CreatedAt),
		DateModified: formatTime(export.ModifiedAt),
		Songs:        make([]wireSong, 0, len(export.Songs)),
	}
	if export.EventDate != nil {
		w.EventDate = formatTime(*export.EventDate)
	}
	for _, song := range export.Songs {
		w.Songs = append(w.Songs, encodeSong(song))
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encoding setlist %q: %w", export.Name, err)
	}
	return data, nil
}

func encodeSong(song domain.IncomingSong) wireSong {
	w := wireSong{
		ID:            song.ID,
		Title:         song.Title,
		FileName:      song.FileName,
		FileExtension: song.FileExtension,
		Artist:        song.Artist,
		Key:           song.Key,
		Tempo:         song.Tempo,
		Notes:         song.Notes,
		PageCount:     song.PageCount,
	}
	if len(song.FileData) > 0 {
		w.FileData = base64.StdEncoding.EncodeToString(song.FileData)
	}

	for _, p := range song.MIDIProfiles {
		if !p.IsActive() {
			continue
		}
		w.MIDIProfiles = append(w.MIDIProfiles, wireMIDIProfile{
			ID:             p.ID,
			InstrumentType: string(p.InstrumentType),
			Channel:        p.Channel,
			ProgramNumber:  *p.ProgramNumber,
			BankMSB:        p.BankMSB,
			BankLSB:        p.BankLSB,
			Label:          p.Label,
		})
		// Older readers only know the flat fields.
		if p.InstrumentType == domain.InstrumentKeyboard {
			w.MIDIChannel = domain.IntPtr(p.Channel)
			w.MIDIProgramNumber = domain.IntPtr(*p.ProgramNumber)
			w.MIDIBankMSB = p.BankMSB
			w.MIDIBankLSB = p.BankLSB
		}
	}

	for _, p := range song.AnnotationProfiles {
		w.AnnotationProfiles = append(w.AnnotationProfiles, encodeAnnotationProfile(p))
	}
	return w
}

func encodeAnnotationProfile(p domain.AnnotationProfile) wireAnnotationProfile {
	w := wireAnnotationProfile{
		ID:          p.ID,
		Name:        p.Name,
		OwnerName:   p.OwnerName,
		IsDefault:   p.IsDefault,
		CreatedAt:   optionalTime(p.CreatedAt),
		ModifiedAt:  optionalTime(p.ModifiedAt),
		Annotations: make([]wireAnnotation, 0, len(p.Annotations)),
	}
	for _, a := range p.Annotations {
		w.Annotations = append(w.Annotations, wireAnnotation{
			ID:         a.ID,
			PageIndex:  a.PageIndex,
			RelativeX:  domain.ClampUnit(a.RelativeX),
			RelativeY:  domain.ClampUnit(a.RelativeY),
			Text:       a.Text,
			Color:      string(domain.ParseAnnotationColor(string(a.Color))),
			FontSize:   string(domain.ParseFontSize(string(a.FontSize))),
			IsBold:     a.IsBold,
			CreatedAt:  optionalTime(a.CreatedAt),
			ModifiedAt: optionalTime(a.ModifiedAt),
		})
	}
	return w
}

func optionalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return formatTime(t)
}
