// Package legacytest builds legacy songlist archives for tests.
package legacytest

import (
	"bytes"

	"github.com/klauspost/pgzip"
	"howett.net/plist"
)

// Song is one songlist entry to archive.
type Song struct {
	Name         string
	Path         string
	File         []byte
	MIDICommands string
}

// Songlist describes an archive to build.
type Songlist struct {
	Name  string
	ID    int64
	Songs []Song

	// Gzip frames the outer archive.
	Gzip bool
	// Wrapped stores strings and bytes as NSString / NSData dictionaries
	// instead of plain values.
	Wrapped bool
}

type objectTable struct {
	objects []any
	wrapped bool
}

func (t *objectTable) add(v any) plist.UID {
	t.objects = append(t.objects, v)
	return plist.UID(len(t.objects) - 1)
}

func (t *objectTable) addString(s string) plist.UID {
	if t.wrapped {
		return t.add(map[string]any{"NS.string": s})
	}
	return t.add(s)
}

func (t *objectTable) addData(b []byte) plist.UID {
	if t.wrapped {
		return t.add(map[string]any{"NS.data": b})
	}
	return t.add(b)
}

// Build returns the archived songlist.
func Build(s Songlist) []byte {
	inner := &objectTable{objects: []any{"$null"}, wrapped: s.Wrapped}
	rootIndex := len(inner.objects)
	inner.objects = append(inner.objects, nil)

	name := inner.addString(s.Name)

	refs := make([]any, 0, len(s.Songs))
	for _, song := range s.Songs {
		entry := map[string]any{
			"songName": inner.addString(song.Name),
			"songPath": inner.addString(song.Path),
		}
		if len(song.File) > 0 {
			entry["actualFile"] = inner.addData(song.File)
		} else {
			entry["actualFile"] = plist.UID(0)
		}
		if song.MIDICommands != "" {
			entry["midiCommands"] = inner.addString(song.MIDICommands)
		} else {
			entry["midiCommands"] = plist.UID(0)
		}
		refs = append(refs, inner.add(entry))
	}
	songs := inner.add(map[string]any{"NS.objects": refs})

	inner.objects[rootIndex] = map[string]any{
		"songlistName": name,
		"songlistID":   s.ID,
		"songs":        songs,
	}

	return Wrap(Marshal(Archive(inner.objects)), s.Gzip)
}

// Archive wraps an object table in keyed archive top-level keys.
func Archive(objects []any) map[string]any {
	return map[string]any{
		"$archiver": "NSKeyedArchiver",
		"$version":  int64(100000),
		"$top":      map[string]any{"root": plist.UID(1)},
		"$objects":  objects,
	}
}

// Wrap embeds an inner archive at index 3 of an outer archive, as the
// predecessor app stored it.
func Wrap(inner []byte, gzip bool) []byte {
	outer := Marshal(Archive([]any{
		"$null",
		map[string]any{"payload": plist.UID(3), "$class": plist.UID(2)},
		map[string]any{"$classname": "SonglistDocument", "$classes": []any{"SonglistDocument", "NSObject"}},
		map[string]any{"NS.data": inner, "$class": plist.UID(4)},
		map[string]any{"$classname": "NSMutableData", "$classes": []any{"NSMutableData", "NSData", "NSObject"}},
	}))
	if gzip {
		return Gzip(outer)
	}
	return outer
}

// Marshal encodes v as a binary property list.
func Marshal(v any) []byte {
	data, err := plist.Marshal(v, plist.BinaryFormat)
	if err != nil {
		panic(err)
	}
	return data
}

// Gzip compresses data.
func Gzip(data []byte) []byte {
	var buf bytes.Buffer
	w := pgzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
