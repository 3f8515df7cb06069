package schema

import (
	"github.com/jaki95/setlist-sync/internal/domain"
)

// upgrader lifts a document one schema version. Upgraders never mutate their
// input and are safe to apply to documents already at or past their target,
// so the whole chain runs regardless of the declared version.
type upgrader func(doc object) object

var upgraders = []upgrader{
	upgradeV1ToV2,
	upgradeV2ToV3,
	upgradeV3ToV4,
}

// upgrade runs doc through every upgrader.
func upgrade(doc object) object {
	for _, up := range upgraders {
		doc = up(doc)
	}
	return doc
}

// mapSongs applies fn to every song object, copying the document and song list.
func mapSongs(doc object, fn func(song object) object) object {
	out := copyObject(doc)
	songs, ok := arrayField(doc, keySongs)
	if !ok {
		return out
	}

	upgraded := make([]any, len(songs))
	for i, raw := range songs {
		if song, ok := raw.(map[string]any); ok {
			upgraded[i] = fn(copyObject(song))
		} else {
			upgraded[i] = raw
		}
	}
	out[keySongs] = upgraded
	return out
}

// upgradeV1ToV2 splits extensions out of fileName and converts unix-second dates.
func upgradeV1ToV2(doc object) object {
	out := mapSongs(doc, func(song object) object {
		if ext, ok := stringField(song, "fileExtension"); ok && ext != "" {
			return song
		}
		name, ok := stringField(song, "fileName")
		if !ok {
			return song
		}
		base, ext := domain.SplitFileName(name)
		if ext != "" {
			song["fileName"] = base
			song["fileExtension"] = ext
		}
		return song
	})

	for _, key := range []string{keyDateCreated, keyDateModified, keyEventDate} {
		if seconds, ok := out[key].(float64); ok {
			out[key] = formatTime(timeFromUnix(seconds))
		}
	}
	return out
}

// upgradeV2ToV3 synthesizes a keyboard MIDI profile from the flat fields.
func upgradeV2ToV3(doc object) object {
	return mapSongs(doc, func(song object) object {
		if profiles, ok := arrayField(song, "midiProfiles"); ok && len(profiles) > 0 {
			return song
		}
		program, ok := intField(song, "midiProgramNumber")
		if !ok {
			delete(song, "midiProfiles")
			return song
		}

		profile := object{
			"instrumentType": string(domain.InstrumentKeyboard),
			"programNumber":  float64(program),
		}
		if channel, ok := intField(song, "midiChannel"); ok {
			profile["channel"] = float64(channel)
		}
		if msb, ok := intField(song, "midiBankMSB"); ok {
			profile["bankMSB"] = float64(msb)
		}
		if lsb, ok := intField(song, "midiBankLSB"); ok {
			profile["bankLSB"] = float64(lsb)
		}
		song["midiProfiles"] = []any{profile}
		return song
	})
}

// upgradeV3ToV4 drops empty annotation profile lists so that absence, not an
// empty list, is what every decoded document carries.
func upgradeV3ToV4(doc object) object {
	return mapSongs(doc, func(song object) object {
		if profiles, ok := arrayField(song, "annotationProfiles"); !ok || len(profiles) == 0 {
			delete(song, "annotationProfiles")
		}
		return song
	})
}
