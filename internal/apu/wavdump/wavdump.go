// Package wavdump captures the APU's mixed stereo output to a standard
// .wav file, for test fixtures and manual audio debugging: feed it the
// same interleaved float32 buffers FillAudioBuffer hands the host and it
// encodes them straight through go-audio/wav, no intermediate format of
// our own.
package wavdump

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SampleRate is the APU mixer's fixed output rate.
const SampleRate = 32768

const (
	numChannels = 2
	bitDepth    = 16
)

// Writer encodes interleaved stereo float32 samples (the same shape
// Container.FillAudioBuffer produces) to a 16-bit PCM .wav file.
type Writer struct {
	f   *os.File
	enc *wav.Encoder
	buf *audio.IntBuffer
}

// Create opens path and prepares a 16-bit/32768Hz/stereo .wav encoder.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wavdump: creating %q: %w", path, err)
	}
	enc := wav.NewEncoder(f, SampleRate, bitDepth, numChannels, 1)
	return &Writer{
		f:   f,
		enc: enc,
		buf: &audio.IntBuffer{
			Format: &audio.Format{SampleRate: SampleRate, NumChannels: numChannels},
			Data:   make([]int, 0),
		},
	}, nil
}

// WriteSamples appends interleaved stereo samples in [-1, 1] range,
// converting to signed 16-bit PCM.
func (w *Writer) WriteSamples(samples []float32) error {
	data := w.buf.Data[:0]
	for _, s := range samples {
		data = append(data, floatToPCM16(s))
	}
	w.buf.Data = data
	return w.enc.Write(w.buf)
}

func floatToPCM16(s float32) int {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int(s * 32767)
}

// Close finalizes the wav header and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("wavdump: finalizing encoder: %w", err)
	}
	return w.f.Close()
}
