package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/setlist-sync/internal/domain"
)

const exportV1 = `{
	"version": 1,
	"name": "Spring Recital",
	"id": 17,
	"event": "Recital",
	"venue": "Town Hall",
	"dateCreated": 1700000000,
	"dateModified": 1700003600.5,
	"songs": [
		{"id": "a", "title": "Prelude", "fileName": "Prelude in C.pdf", "midiChannel": 2, "midiProgramNumber": 5},
		{"id": "b", "fileName": "Hymn.doc", "fileData": "SHltbg=="},
		"not a song"
	]
}`

const exportV2 = `{
	"version": 2,
	"name": "Sunday",
	"id": "set-2",
	"event": "",
	"venue": "",
	"dateCreated": "2023-05-01T10:00:00Z",
	"dateModified": "2023-05-02T10:00:00.750Z",
	"songs": [
		{"id": "a", "title": "Amazing Grace", "fileName": "Amazing Grace", "fileExtension": "pdf",
		 "tempo": "72", "midiChannel": 0, "midiProgramNumber": 19, "midiBankMSB": 0, "midiBankLSB": 3},
		{"id": "b", "title": "Doxology", "fileName": "Doxology", "fileExtension": "pdf", "midiProgramNumber": "x"}
	]
}`

const exportV3 = `{
	"version": 3,
	"name": "Jazz Night",
	"id": "set-3",
	"event": "Club",
	"venue": "Blue Room",
	"dateCreated": "2024-01-01T00:00:00Z",
	"dateModified": "2024-01-01T00:00:00Z",
	"songs": [
		{"id": "a", "title": "So What", "fileName": "So What", "fileExtension": "pdf",
		 "midiProfiles": [
			{"instrumentType": "keyboard", "channel": 1, "programNumber": 4, "label": "Rhodes"},
			{"instrumentType": "bass", "channel": 2, "programNumber": 33},
			{"instrumentType": "synth", "channel": 3},
			{"instrumentType": "theremin", "channel": 4, "programNumber": 1}
		 ],
		 "midiChannel": 9, "midiProgramNumber": 100,
		 "annotationProfiles": []}
	]
}`

const exportV4 = `{
	"version": 4,
	"name": "Gig 1",
	"id": "set-4",
	"event": "Wedding",
	"venue": "Barn",
	"eventDate": "2024-06-15T18:00:00Z",
	"notes": "bring stands",
	"dateCreated": "2024-06-01T00:00:00Z",
	"dateModified": "2024-06-02T00:00:00Z",
	"songs": [
		{"id": "s1", "title": "Song", "fileName": "Song", "fileExtension": "pdf", "pageCount": 3,
		 "annotationProfiles": [
			{"id": "p1", "name": "Alice", "ownerName": "alice", "isDefault": true,
			 "modifiedAt": "2024-06-01T12:00:00Z",
			 "annotations": [
				{"id": "n1", "pageIndex": 0, "relativeX": 1.5, "relativeY": -0.2, "text": "slow",
				 "color": "red", "fontSize": "large", "isBold": true},
				{"id": "n2", "pageIndex": "two", "relativeX": 0.25, "relativeY": 0.75, "text": "cue",
				 "color": "purple", "fontSize": 12}
			 ]},
			{"name": "no id"}
		 ]}
	]
}`

func TestDecodeVersion1(t *testing.T) {
	export, err := Decode([]byte(exportV1))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, export.Version)
	assert.Equal(t, "17", export.ID)
	assert.Equal(t, "Spring Recital", export.Name)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), export.CreatedAt)
	assert.Equal(t, time.Unix(1700003600, 0).UTC(), export.ModifiedAt)
	require.Len(t, export.Songs, 2)

	prelude := export.Songs[0]
	assert.Equal(t, "Prelude in C", prelude.FileName)
	assert.Equal(t, "pdf", prelude.FileExtension)
	require.Len(t, prelude.MIDIProfiles, 1)
	assert.Equal(t, domain.InstrumentKeyboard, prelude.MIDIProfiles[0].InstrumentType)
	assert.Equal(t, 2, prelude.MIDIProfiles[0].Channel)
	assert.Equal(t, 5, *prelude.MIDIProfiles[0].ProgramNumber)

	hymn := export.Songs[1]
	assert.Equal(t, "Hymn", hymn.Title, "title defaults to the file name")
	assert.Equal(t, "doc", hymn.FileExtension)
	assert.Equal(t, []byte("Hymn"), hymn.FileData)
	assert.Empty(t, hymn.MIDIProfiles)
}

func TestDecodeVersion2(t *testing.T) {
	export, err := Decode([]byte(exportV2))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 5, 2, 10, 0, 0, 0, time.UTC), export.ModifiedAt)
	require.Len(t, export.Songs, 2)

	grace := export.Songs[0]
	require.NotNil(t, grace.Tempo)
	assert.Equal(t, 72, *grace.Tempo)
	require.Len(t, grace.MIDIProfiles, 1)
	profile := grace.MIDIProfiles[0]
	assert.Equal(t, 19, *profile.ProgramNumber)
	assert.Equal(t, 0, *profile.BankMSB)
	assert.Equal(t, 3, *profile.BankLSB)

	assert.Empty(t, export.Songs[1].MIDIProfiles, "non-numeric program reads as absent")
}

func TestDecodeVersion3(t *testing.T) {
	export, err := Decode([]byte(exportV3))
	require.NoError(t, err)
	require.Len(t, export.Songs, 1)

	song := export.Songs[0]
	require.Len(t, song.MIDIProfiles, 2, "inactive and unknown profiles are dropped")
	assert.Equal(t, domain.InstrumentKeyboard, song.MIDIProfiles[0].InstrumentType)
	assert.Equal(t, 4, *song.MIDIProfiles[0].ProgramNumber, "profiles win over flat fields")
	assert.Equal(t, "Rhodes", song.MIDIProfiles[0].Label)
	assert.Equal(t, domain.InstrumentBass, song.MIDIProfiles[1].InstrumentType)

	assert.Nil(t, song.AnnotationProfiles, "empty annotation list reads as absent")
}

func TestDecodeVersion4(t *testing.T) {
	export, err := Decode([]byte(exportV4))
	require.NoError(t, err)

	require.NotNil(t, export.EventDate)
	assert.Equal(t, time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC), *export.EventDate)
	assert.Equal(t, "bring stands", export.Notes)

	song := export.Songs[0]
	require.Len(t, song.AnnotationProfiles, 1, "profiles without an id are dropped")
	profile := song.AnnotationProfiles[0]
	assert.Equal(t, "p1", profile.ID)
	assert.True(t, profile.IsDefault)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), profile.ModifiedAt)
	require.Len(t, profile.Annotations, 2)

	first := profile.Annotations[0]
	assert.Equal(t, 1.0, first.RelativeX)
	assert.Equal(t, 0.0, first.RelativeY)
	assert.Equal(t, domain.ColorRed, first.Color)
	assert.Equal(t, domain.FontLarge, first.FontSize)
	assert.True(t, first.IsBold)

	second := profile.Annotations[1]
	assert.Equal(t, 0, second.PageIndex)
	assert.Equal(t, domain.ColorBlack, second.Color)
	assert.Equal(t, domain.FontMedium, second.FontSize)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed json", data: `{"songs": [`},
		{name: "top level array", data: `[]`},
		{name: "null", data: `null`},
		{name: "missing songs", data: `{"version": 4, "name": "x"}`},
		{name: "songs not an array", data: `{"version": 4, "songs": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidFormat)

			var syncErr *domain.SyncError
			require.ErrorAs(t, err, &syncErr)
			assert.Equal(t, domain.StageJSON, syncErr.Stage)
		})
	}
}

func TestDecodeToleratesMismatchedOptionalFields(t *testing.T) {
	export, err := Decode([]byte(`{"name": 5, "venue": [], "dateCreated": "yesterday", "songs": [
		{"fileName": "A", "fileExtension": "pdf", "tempo": true, "pageCount": 1.5, "fileData": "%%%",
		 "midiProfiles": "nope", "annotationProfiles": 3}
	]}`))
	require.NoError(t, err)

	assert.Empty(t, export.Name)
	assert.True(t, export.CreatedAt.IsZero())
	require.Len(t, export.Songs, 1)
	song := export.Songs[0]
	assert.Nil(t, song.Tempo)
	assert.Nil(t, song.PageCount)
	assert.Nil(t, song.FileData)
	assert.Empty(t, song.MIDIProfiles)
	assert.Nil(t, song.AnnotationProfiles)
}

func TestDecodeEncodeIsFixedPoint(t *testing.T) {
	for name, doc := range map[string]string{
		"v1": exportV1,
		"v2": exportV2,
		"v3": exportV3,
		"v4": exportV4,
	} {
		t.Run(name, func(t *testing.T) {
			first, err := Decode([]byte(doc))
			require.NoError(t, err)

			encoded, err := Encode(first)
			require.NoError(t, err)

			second, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, first, second)

			reencoded, err := Encode(second)
			require.NoError(t, err)
			assert.JSONEq(t, string(encoded), string(reencoded))
		})
	}
}

func TestEncode(t *testing.T) {
	eventDate := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	export := &domain.SetlistExport{
		ID:         "set-1",
		Name:       "Gig 1",
		Event:      "Wedding",
		Venue:      "Barn",
		EventDate:  &eventDate,
		CreatedAt:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ModifiedAt: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		Songs: []domain.IncomingSong{{
			ID:            "s1",
			Title:         "Song",
			FileName:      "Song",
			FileExtension: "pdf",
			FileData:      []byte("pdf"),
			MIDIProfiles: []domain.MIDIProfile{
				{InstrumentType: domain.InstrumentKeyboard, Channel: 3, ProgramNumber: domain.IntPtr(42), BankMSB: domain.IntPtr(0), BankLSB: domain.IntPtr(3)},
				{InstrumentType: domain.InstrumentGuitar, Channel: 1},
			},
		}},
	}

	data, err := Encode(export)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, float64(CurrentVersion), doc["version"])
	assert.Equal(t, "2024-06-15T18:00:00Z", doc["eventDate"])
	assert.Equal(t, "2024-06-01T00:00:00Z", doc["dateCreated"])
	assert.NotContains(t, doc, "notes")

	song := doc["songs"].([]any)[0].(map[string]any)
	assert.Equal(t, "cGRm", song["fileData"])
	assert.Equal(t, float64(3), song["midiChannel"])
	assert.Equal(t, float64(42), song["midiProgramNumber"])
	assert.Equal(t, float64(3), song["midiBankLSB"])
	assert.NotContains(t, song, "annotationProfiles")

	profiles := song["midiProfiles"].([]any)
	require.Len(t, profiles, 1, "inactive profiles are not exported")
	assert.Equal(t, "keyboard", profiles[0].(map[string]any)["instrumentType"])
}

func TestEncodeEmptySetlist(t *testing.T) {
	data, err := Encode(&domain.SetlistExport{Name: "Empty"})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, []any{}, doc["songs"])
}

func TestExportSetlist(t *testing.T) {
	setlist := &domain.Setlist{ID: "set-1", Name: "Gig 1", EventName: "Wedding", Venue: "Barn"}
	song := &domain.Song{ID: "s1", Title: "Song", FileName: "Song", FileExtension: "pdf", FileData: []byte("pdf")}
	song.SetMIDIProfile(domain.MIDIProfile{InstrumentType: domain.InstrumentGuitar, Channel: 1})
	song.SetMIDIProfile(domain.MIDIProfile{InstrumentType: domain.InstrumentKeyboard, ProgramNumber: domain.IntPtr(1)})

	export := ExportSetlist(setlist, []*domain.Song{song}, false)
	assert.Equal(t, "Wedding", export.Event)
	require.Len(t, export.Songs, 1)
	assert.Nil(t, export.Songs[0].FileData)
	assert.Len(t, export.Songs[0].MIDIProfiles, 1)

	withData := ExportSetlist(setlist, []*domain.Song{song}, true)
	assert.Equal(t, []byte("pdf"), withData.Songs[0].FileData)
}

func TestUpgradersArePure(t *testing.T) {
	var doc object
	require.NoError(t, json.Unmarshal([]byte(exportV1), &doc))
	before, err := json.Marshal(doc)
	require.NoError(t, err)

	upgraded := upgrade(doc)

	after, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))

	song := upgraded["songs"].([]any)[0].(map[string]any)
	assert.Equal(t, "pdf", song["fileExtension"])
	assert.Len(t, song["midiProfiles"], 1)
	assert.Equal(t, "2023-11-14T22:13:20Z", upgraded["dateCreated"])

	// Running the chain again changes nothing.
	again := upgrade(upgraded)
	assert.Equal(t, upgraded, again)
}
