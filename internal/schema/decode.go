package schema

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jaki95/setlist-sync/internal/domain"
)

var errMissingSongs = errors.New("missing songs array")

// Decode reads an export of any known version into the current shape.
// Optional fields of the wrong type are treated as absent; only malformed
// JSON or a missing songs array is an error.
func Decode(data []byte) (*domain.SetlistExport, error) {
	var doc object
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewInvalidFormat(domain.StageJSON, err)
	}
	if doc == nil {
		return nil, domain.NewInvalidFormat(domain.StageJSON, errors.New("top level is not an object"))
	}
	if _, ok := arrayField(doc, keySongs); !ok {
		return nil, domain.NewInvalidFormat(domain.StageJSON, errMissingSongs)
	}

	declared, _ := intField(doc, keyVersion)
	if declared > CurrentVersion {
		slog.Warn("Export is newer than this reader", "version", declared, "current", CurrentVersion)
	}
	doc = upgrade(doc)

	export := &domain.SetlistExport{
		Version:    CurrentVersion,
		ID:         idField(doc, "id"),
		Name:       stringOr(doc, "name", ""),
		Event:      stringOr(doc, "event", ""),
		Venue:      stringOr(doc, "venue", ""),
		EventDate:  timePtrField(doc, keyEventDate),
		Notes:      stringOr(doc, "notes", ""),
		CreatedAt:  timeOrZero(doc, keyDateCreated),
		ModifiedAt: timeOrZero(doc, keyDateModified),
	}

	songs, _ := arrayField(doc, keySongs)
	export.Songs = make([]domain.IncomingSong, 0, len(songs))
	for i, raw := range songs {
		song, ok := raw.(map[string]any)
		if !ok {
			slog.Warn("Skipping malformed song entry", "index", i)
			continue
		}
		export.Songs = append(export.Songs, decodeSong(song))
	}
	return export, nil
}

func timeOrZero(m object, key string) time.Time {
	t, _ := timeField(m, key)
	return t
}

func decodeSong(m object) domain.IncomingSong {
	fileName := stringOr(m, "fileName", "")
	song := domain.IncomingSong{
		ID:            idField(m, "id"),
		Title:         stringOr(m, "title", fileName),
		FileName:      fileName,
		FileExtension: stringOr(m, "fileExtension", ""),
		Artist:        stringOr(m, "artist", ""),
		Key:           stringOr(m, "key", ""),
		Tempo:         intPtrField(m, "tempo"),
		Notes:         stringOr(m, "notes", ""),
		PageCount:     intPtrField(m, "pageCount"),
		FileData:      bytesField(m, "fileData"),
	}

	if raw, ok := arrayField(m, "midiProfiles"); ok {
		song.MIDIProfiles = decodeMIDIProfiles(raw)
	}
	if len(song.MIDIProfiles) == 0 {
		if profile, ok := flatMIDIProfile(m); ok {
			song.MIDIProfiles = []domain.MIDIProfile{profile}
		}
	}
	if raw, ok := arrayField(m, "annotationProfiles"); ok {
		song.AnnotationProfiles = decodeAnnotationProfiles(raw)
	}
	return song
}

// decodeMIDIProfiles keeps active profiles only, one per instrument type.
func decodeMIDIProfiles(raw []any) []domain.MIDIProfile {
	var holder domain.Song
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		profile, ok := decodeMIDIProfile(m)
		if !ok {
			continue
		}
		holder.SetMIDIProfile(profile)
	}
	return holder.MIDIProfiles
}

func decodeMIDIProfile(m object) (domain.MIDIProfile, bool) {
	program, ok := intField(m, "programNumber")
	if !ok || !domain.ValidDataByte(program) {
		return domain.MIDIProfile{}, false
	}

	instrument := domain.InstrumentKeyboard
	if s, ok := stringField(m, "instrumentType"); ok {
		parsed, known := domain.ParseInstrumentType(s)
		if !known {
			return domain.MIDIProfile{}, false
		}
		instrument = parsed
	}

	channel, ok := intField(m, "channel")
	if !ok || !domain.ValidChannel(channel) {
		channel = 0
	}

	return domain.MIDIProfile{
		ID:             stringOr(m, "id", ""),
		InstrumentType: instrument,
		Channel:        channel,
		ProgramNumber:  domain.IntPtr(program),
		BankMSB:        dataBytePtr(m, "bankMSB"),
		BankLSB:        dataBytePtr(m, "bankLSB"),
		Label:          stringOr(m, "label", ""),
	}, true
}

// flatMIDIProfile reads the pre-profile midiChannel/midiProgramNumber/
// midiBankMSB/midiBankLSB fields as a keyboard profile.
func flatMIDIProfile(m object) (domain.MIDIProfile, bool) {
	flat := object{"instrumentType": string(domain.InstrumentKeyboard)}
	for from, to := range map[string]string{
		"midiChannel":       "channel",
		"midiProgramNumber": "programNumber",
		"midiBankMSB":       "bankMSB",
		"midiBankLSB":       "bankLSB",
	} {
		if v, ok := m[from]; ok {
			flat[to] = v
		}
	}
	return decodeMIDIProfile(flat)
}

func dataBytePtr(m object, key string) *int {
	if n, ok := intField(m, key); ok && domain.ValidDataByte(n) {
		return &n
	}
	return nil
}

func decodeAnnotationProfiles(raw []any) []domain.AnnotationProfile {
	var profiles []domain.AnnotationProfile
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, ok := stringField(m, "id")
		if !ok || id == "" {
			continue
		}

		profile := domain.AnnotationProfile{
			ID:         id,
			Name:       stringOr(m, "name", ""),
			OwnerName:  stringOr(m, "ownerName", ""),
			IsDefault:  boolField(m, "isDefault"),
			CreatedAt:  timeOrZero(m, "createdAt"),
			ModifiedAt: timeOrZero(m, "modifiedAt"),
		}
		if annotations, ok := arrayField(m, "annotations"); ok {
			profile.Annotations = decodeAnnotations(annotations)
		}
		profiles = append(profiles, profile)
	}
	return profiles
}

func decodeAnnotations(raw []any) []domain.Annotation {
	var annotations []domain.Annotation
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		page, _ := intField(m, "pageIndex")
		if page < 0 {
			page = 0
		}
		x, _ := floatField(m, "relativeX")
		y, _ := floatField(m, "relativeY")

		a := domain.Annotation{
			ID:         stringOr(m, "id", ""),
			PageIndex:  page,
			RelativeX:  x,
			RelativeY:  y,
			Text:       stringOr(m, "text", ""),
			Color:      domain.ParseAnnotationColor(stringOr(m, "color", "")),
			FontSize:   domain.ParseFontSize(stringOr(m, "fontSize", "")),
			IsBold:     boolField(m, "isBold"),
			CreatedAt:  timeOrZero(m, "createdAt"),
			ModifiedAt: timeOrZero(m, "modifiedAt"),
		}
		a.Clamp()
		annotations = append(annotations, a)
	}
	return annotations
}
