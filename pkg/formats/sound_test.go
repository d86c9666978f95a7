package formats

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestAttenuateSample(t *testing.T) {
	tests := []struct {
		in, want uint8
	}{
		{0, 77},
		{128, 128},
		{255, 179},
		{129, 128},
		{200, 157},
		{127, 128},
	}
	for _, tt := range tests {
		if got := AttenuateSample(tt.in, SoundVolumeFactor); got != tt.want {
			t.Errorf("AttenuateSample(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAttenuateSample_Clamps(t *testing.T) {
	if got := AttenuateSample(255, 4); got != 255 {
		t.Errorf("expected clamp to 255, got %d", got)
	}
	if got := AttenuateSample(0, 4); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
}

func TestExtractSounds(t *testing.T) {
	region := []byte{128, 128, 128, 0, 255, 200, 200}
	lengths := []uint16{0, 3, 0, 4}

	clips := ExtractSounds(region, lengths)
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(clips))
	}

	if clips[0].Slot != 1 || clips[0].Offset != 0 || clips[0].Length != 3 {
		t.Errorf("unexpected clip 0: %+v", clips[0])
	}
	if clips[1].Slot != 3 || clips[1].Offset != 3 || clips[1].Length != 4 {
		t.Errorf("unexpected clip 1: %+v", clips[1])
	}
	if !bytes.Equal(clips[1].PCM, []byte{77, 179, 157, 157}) {
		t.Errorf("unexpected PCM %v", clips[1].PCM)
	}
	if len(clips[1].WAV) != wavHeaderSize+4 {
		t.Errorf("expected %d WAV bytes, got %d", wavHeaderSize+4, len(clips[1].WAV))
	}
}

func TestExtractSounds_Overflow(t *testing.T) {
	if clips := ExtractSounds([]byte{1, 2, 3}, []uint16{2, 2}); clips != nil {
		t.Errorf("expected no clips when lengths overflow region, got %d", len(clips))
	}
}

func TestEncodeWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5}
	wav := EncodeWAV(pcm)

	if len(wav) != wavHeaderSize+len(pcm) {
		t.Fatalf("expected %d bytes, got %d", wavHeaderSize+len(pcm), len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:16]) != "WAVEfmt " || string(wav[36:40]) != "data" {
		t.Errorf("unexpected chunk ids in %q", wav[:40])
	}

	le := binary.LittleEndian
	if got := le.Uint32(wav[4:]); got != uint32(36+len(pcm)) {
		t.Errorf("RIFF size = %d, want %d", got, 36+len(pcm))
	}
	if got := le.Uint16(wav[22:]); got != SoundChannels {
		t.Errorf("channels = %d", got)
	}
	if got := le.Uint32(wav[24:]); got != SoundSampleRate {
		t.Errorf("sample rate = %d", got)
	}
	if got := le.Uint32(wav[28:]); got != SoundSampleRate {
		t.Errorf("byte rate = %d", got)
	}
	if got := le.Uint16(wav[34:]); got != SoundBitDepth {
		t.Errorf("bits per sample = %d", got)
	}
	if got := le.Uint32(wav[40:]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d", got)
	}
	if !bytes.Equal(wav[wavHeaderSize:], pcm) {
		t.Error("PCM payload not copied verbatim")
	}
}
