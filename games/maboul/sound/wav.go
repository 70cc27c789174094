/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package sound

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// WriteWAV encodes a finite stream as 16-bit stereo WAV.
func WriteWAV(w io.WriteSeeker, s beep.Streamer) error {
	return wav.Encode(w, s, Format)
}

// EncodeWAV renders a cue to WAV bytes. The encoder needs to seek back to
// patch the header, so the audio goes through a scratch file.
func EncodeWAV(s maboul.Sound) ([]byte, error) {
	stream, err := Cue(s, SampleRate)
	if err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "maboulbox-*.wav")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()

	if err := WriteWAV(f, stream); err != nil {
		return nil, fmt.Errorf("encode %s: %w", s, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}

// Export writes every cue into dir as <name>.wav and returns the paths.
func Export(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var paths []string
	for _, name := range Names() {
		data, err := EncodeWAV(name)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, string(name)+".wav")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Bank holds pre-rendered WAV data for every cue.
type Bank struct {
	data map[maboul.Sound][]byte
}

func NewBank() (*Bank, error) {
	b := &Bank{data: make(map[maboul.Sound][]byte)}
	for _, name := range Names() {
		data, err := EncodeWAV(name)
		if err != nil {
			return nil, err
		}
		b.data[name] = data
	}
	return b, nil
}

func (b *Bank) Get(s maboul.Sound) ([]byte, bool) {
	data, ok := b.data[s]
	return data, ok
}
