package library

import (
	"time"
)

// Timestamps use Created/Modified rather than gorm's CreatedAt/UpdatedAt so
// that imported values are stored as given.

type songRecord struct {
	ID                string `gorm:"primaryKey;type:varchar(36)"`
	Title             string
	FileName          string `gorm:"uniqueIndex:idx_song_file,priority:1"`
	FileExtension     string `gorm:"uniqueIndex:idx_song_file,priority:2"`
	Artist            string
	MusicalKey        string
	Tempo             *int
	Notes             string
	PageCount         *int
	MIDIChannel       *int `gorm:"column:midi_channel"`
	MIDIProgramNumber *int `gorm:"column:midi_program_number"`
	MIDIBankMSB       *int `gorm:"column:midi_bank_msb"`
	MIDIBankLSB       *int `gorm:"column:midi_bank_lsb"`
	Created           time.Time
	Modified          time.Time
}

func (songRecord) TableName() string { return "songs" }

type midiProfileRecord struct {
	SongID         string `gorm:"primaryKey;type:varchar(36)"`
	InstrumentType string `gorm:"primaryKey"`
	ID             string
	Position       int
	Channel        int
	ProgramNumber  *int
	BankMSB        *int `gorm:"column:bank_msb"`
	BankLSB        *int `gorm:"column:bank_lsb"`
	Label          string
}

func (midiProfileRecord) TableName() string { return "midi_profiles" }

type annotationProfileRecord struct {
	SongKey     string `gorm:"primaryKey"`
	ID          string `gorm:"primaryKey"`
	Position    int
	Name        string
	OwnerName   string
	IsDefault   bool
	Annotations string // JSON array
	Created     time.Time
	Modified    time.Time
}

func (annotationProfileRecord) TableName() string { return "annotation_profiles" }

type fileAliasRecord struct {
	FileName string `gorm:"primaryKey"`
	SongID   string `gorm:"type:varchar(36);index:idx_alias_song"`
}

func (fileAliasRecord) TableName() string { return "file_aliases" }

type setlistRecord struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"index:idx_setlist_name"`
	SongIDs   string // JSON array
	EventName string
	Venue     string
	EventDate *time.Time
	Notes     string
	Created   time.Time
	Modified  time.Time
}

func (setlistRecord) TableName() string { return "setlists" }
