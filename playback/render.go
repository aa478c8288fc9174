package playback

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// ErrSpeakerActive is returned when rendering an engine that feeds the speaker
var ErrSpeakerActive = errors.New("engine output is owned by the speaker")

// Record appends d worth of mixed output to buf. Voices advance exactly as
// they would on the speaker, so sounds finish and free their channels.
func (e *Engine) Record(buf *beep.Buffer, d time.Duration) error {
	if e.speaker {
		return ErrSpeakerActive
	}
	buf.Append(beep.Take(e.sampleRate.N(d), e))
	return nil
}

// Render writes d worth of mixed output to w as a 16-bit WAV file
func (e *Engine) Render(w io.WriteSeeker, d time.Duration) error {
	buf := beep.NewBuffer(e.Format())
	if err := e.Record(buf, d); err != nil {
		return err
	}
	return WriteWAV(w, buf)
}

// WriteWAV encodes buf to w
func WriteWAV(w io.WriteSeeker, buf *beep.Buffer) error {
	if err := wav.Encode(w, buf.Streamer(0, buf.Len()), buf.Format()); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	return nil
}
