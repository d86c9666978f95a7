package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Faultbox/chasm-rift/pkg/formats"
)

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"HERO.CAR":           "HERO",
		"data/models/BOX.3O": "BOX",
		`C:\CHASM\DUDE.CAR`:  "DUDE",
		"NOEXT":              "NOEXT",
	}
	for in, want := range tests {
		if got := baseName(in); got != want {
			t.Errorf("baseName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"*.car", "HERO.CAR", true},
		{"*.3o", "HERO.CAR", false},
		{"her", "HERO.CAR", true},
		{"h?ro.*", "HERO.CAR", true},
		{"*.pal", "CHASM2.PAL", true},
		{"zzz", "HERO.CAR", false},
	}
	for _, tt := range tests {
		if got := matchName(tt.pattern, tt.name); got != tt.want {
			t.Errorf("matchName(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}

func TestPrintInfo(t *testing.T) {
	m := &formats.Model{
		Format:      formats.FormatStatic,
		VertexCount: 3,
		Faces: []formats.Face{
			{Flags: formats.FlagHalfTranslucent, Traits: formats.ClassifyFlags(formats.FlagHalfTranslucent)},
			{},
		},
		Frames: [][]formats.Vertex{make([]formats.Vertex, 3)},
		Clips:  []formats.AnimationClip{{Slot: -1, Count: 1}},
		Skin:   formats.Skin{Width: 64, Height: 8},
	}

	var buf bytes.Buffer
	printInfo(&buf, "BOX.3O", m)
	out := buf.String()

	for _, want := range []string{
		"Format:     3O\n",
		"Faces:      2\n",
		"Skin:       64x8\n",
		"Opaque",
		"HalfTranslucent",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
