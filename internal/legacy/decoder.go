// Package legacy decodes songlists archived by the predecessor app: an
// optionally gzipped keyed archive whose payload is itself a second keyed
// archive holding the songlist.
package legacy

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/pgzip"
	"howett.net/plist"

	"github.com/jaki95/setlist-sync/internal/domain"
)

var magicGzip = []byte{0x1f, 0x8b}

const (
	// Index of the NSData wrapper in the outer archive's object table.
	outerPayloadIndex = 3
	// Index of the songlist root in the inner archive's object table.
	innerRootIndex = 1
)

// IsGzip reports whether data starts with the gzip magic bytes.
func IsGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == magicGzip[0] && data[1] == magicGzip[1]
}

// Decode parses a legacy songlist blob. It is pure: the same input always
// yields the same result, and no partial songlist is returned on failure.
func Decode(data []byte) (*domain.LegacySetlist, error) {
	if IsGzip(data) {
		inflated, err := gunzip(data)
		if err != nil {
			return nil, &domain.SyncError{Kind: domain.KindDecompressionFailed, Err: err}
		}
		data = inflated
	}

	outer, err := objectTable(data)
	if err != nil {
		return nil, domain.NewInvalidFormat(domain.StageOuterArchive, err)
	}
	if len(outer) <= outerPayloadIndex {
		return nil, domain.NewInvalidFormat(domain.StageOuterArchive,
			fmt.Errorf("object table has %d entries", len(outer)))
	}
	payload, ok := outer[outerPayloadIndex].AsBytes()
	if !ok || outer[outerPayloadIndex].Kind != KindDict {
		return nil, domain.NewInvalidFormat(domain.StageOuterArchive, errors.New("missing NS.data payload"))
	}

	inner, err := objectTable(payload)
	if err != nil {
		return nil, domain.NewInvalidFormat(domain.StageInnerArchive, err)
	}

	setlist, err := decodeSonglist(inner)
	if err != nil {
		return nil, domain.NewInvalidFormat(domain.StageInnerArchive, err)
	}
	return setlist, nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := pgzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflating gzip stream: %w", err)
	}
	return out, nil
}

// objectTable parses a keyed archive and returns its $objects array.
func objectTable(data []byte) ([]Value, error) {
	var raw any
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing property list: %w", err)
	}

	objects := FromPlist(raw).Field("$objects")
	if objects.Kind != KindArray {
		return nil, errors.New("missing $objects array")
	}
	return objects.Array, nil
}

func decodeSonglist(objects []Value) (*domain.LegacySetlist, error) {
	if len(objects) <= innerRootIndex {
		return nil, fmt.Errorf("object table has %d entries", len(objects))
	}
	root := objects[innerRootIndex]
	if root.Kind != KindDict {
		return nil, errors.New("songlist root is not a dictionary")
	}

	setlist := &domain.LegacySetlist{}
	setlist.Name, _ = Resolve(root.Field("songlistName"), objects).AsString()
	setlist.ID, _ = Resolve(root.Field("songlistID"), objects).AsInt()

	songs := Resolve(root.Field("songs"), objects)
	if songs.IsNull() {
		return setlist, nil
	}

	refs := songs
	if songs.Kind == KindDict {
		refs = songs.Field("NS.objects")
	}
	if refs.Kind != KindArray {
		return nil, errors.New("songs is not an array")
	}

	setlist.Songs = make([]domain.LegacySong, 0, len(refs.Array))
	for i, ref := range refs.Array {
		entry := Resolve(ref, objects)
		if entry.Kind != KindDict {
			return nil, fmt.Errorf("song %d is not a dictionary", i)
		}
		setlist.Songs = append(setlist.Songs, decodeSong(entry, objects))
	}
	return setlist, nil
}

func decodeSong(entry Value, objects []Value) domain.LegacySong {
	var song domain.LegacySong
	song.Name, _ = Resolve(entry.Field("songName"), objects).AsString()
	song.Path, _ = Resolve(entry.Field("songPath"), objects).AsString()
	song.MIDICommands, _ = Resolve(entry.Field("midiCommands"), objects).AsString()
	if file, ok := Resolve(entry.Field("actualFile"), objects).AsBytes(); ok && len(file) > 0 {
		song.File = file
	}
	return song
}
