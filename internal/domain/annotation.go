package domain

import (
	"math"
	"time"
)

type AnnotationColor string

const (
	ColorBlack  AnnotationColor = "black"
	ColorRed    AnnotationColor = "red"
	ColorBlue   AnnotationColor = "blue"
	ColorGreen  AnnotationColor = "green"
	ColorYellow AnnotationColor = "yellow"
	ColorOrange AnnotationColor = "orange"
)

// ParseAnnotationColor falls back to black for unknown values.
func ParseAnnotationColor(s string) AnnotationColor {
	switch c := AnnotationColor(s); c {
	case ColorBlack, ColorRed, ColorBlue, ColorGreen, ColorYellow, ColorOrange:
		return c
	}
	return ColorBlack
}

type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

// ParseFontSize falls back to medium for unknown values.
func ParseFontSize(s string) FontSize {
	switch f := FontSize(s); f {
	case FontSmall, FontMedium, FontLarge:
		return f
	}
	return FontMedium
}

// Annotation is a text marker placed relative to a page.
type Annotation struct {
	ID         string          `json:"id"`
	PageIndex  int             `json:"page_index"`
	RelativeX  float64         `json:"relative_x"`
	RelativeY  float64         `json:"relative_y"`
	Text       string          `json:"text"`
	Color      AnnotationColor `json:"color"`
	FontSize   FontSize        `json:"font_size"`
	IsBold     bool            `json:"is_bold"`
	CreatedAt  time.Time       `json:"created_at"`
	ModifiedAt time.Time       `json:"modified_at"`
}

// Clamp pins the relative coordinates into [0,1].
func (a *Annotation) Clamp() {
	a.RelativeX = ClampUnit(a.RelativeX)
	a.RelativeY = ClampUnit(a.RelativeY)
}

// AnnotationProfile is a named layer of annotations on one song.
// Profiles sharing an id are reconciled by ModifiedAt, never merged annotation by annotation.
type AnnotationProfile struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	OwnerName   string       `json:"owner_name,omitempty"`
	IsDefault   bool         `json:"is_default"`
	Annotations []Annotation `json:"annotations"`
	CreatedAt   time.Time    `json:"created_at"`
	ModifiedAt  time.Time    `json:"modified_at"`
}

// LatestAnnotationChange returns the newest ModifiedAt among the profile's annotations.
func (p AnnotationProfile) LatestAnnotationChange() time.Time {
	var latest time.Time
	for _, a := range p.Annotations {
		if a.ModifiedAt.After(latest) {
			latest = a.ModifiedAt
		}
	}
	return latest
}

// ClampUnit pins v into [0,1]; NaN becomes 0.
func ClampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
