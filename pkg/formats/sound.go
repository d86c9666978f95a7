package formats

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Sound constants. Clips are stored as raw unsigned 8-bit mono PCM.
const (
	SoundSampleRate   = 11025
	SoundBitDepth     = 8
	SoundChannels     = 1
	SoundVolumeFactor = 0.4
	wavHeaderSize     = 44
)

// SoundClip is one sound embedded in an animated model.
type SoundClip struct {
	Slot   int    // Header slot (0-7)
	Offset int    // Offset into the trailing audio region
	Length int    // Bytes of PCM
	Volume uint16 // Header volume field (not applied)
	PCM    []byte // Attenuated samples
	WAV    []byte // PCM wrapped in a RIFF/WAVE container
}

// ExtractSounds slices region into clips by the declared lengths. Slots with
// zero length are skipped without leaving a gap. If the lengths add up to
// more than the region holds, no clips are returned.
func ExtractSounds(region []byte, lengths []uint16) []SoundClip {
	if sum16(lengths) > len(region) {
		return nil
	}

	var clips []SoundClip
	pos := 0
	for slot, n := range lengths {
		if n == 0 {
			continue
		}
		pcm := make([]byte, n)
		for i := range pcm {
			pcm[i] = AttenuateSample(region[pos+i], SoundVolumeFactor)
		}
		clips = append(clips, SoundClip{
			Slot:   slot,
			Offset: pos,
			Length: int(n),
			PCM:    pcm,
			WAV:    EncodeWAV(pcm),
		})
		pos += int(n)
	}
	return clips
}

// AttenuateSample scales an unsigned 8-bit sample toward the 128 midpoint.
func AttenuateSample(s uint8, k float64) uint8 {
	v := math.Round((float64(s)-128)*k + 128)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// EncodeWAV wraps 8-bit mono PCM at SoundSampleRate in a WAVE container.
func EncodeWAV(pcm []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + len(pcm))

	const blockAlign = SoundChannels * SoundBitDepth / 8

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16)) // fmt chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(SoundChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(SoundSampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(SoundSampleRate*blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(SoundBitDepth))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
