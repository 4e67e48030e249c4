// Package recorder persists per-frame camera poses as a msgpack stream and
// reads them back for the scripted navigation strategy.
package recorder

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/signalsfoundry/globe-navigator/model"
)

// Recorder appends timed poses to a stream. It is not safe for concurrent
// use; the frame loop is its only caller.
type Recorder struct {
	enc *msgpack.Encoder
}

// New constructs a Recorder writing to w.
func New(w io.Writer) *Recorder {
	return &Recorder{enc: msgpack.NewEncoder(w)}
}

// Record appends one sample. t is seconds since session start.
func (r *Recorder) Record(t float64, pose model.Pose) error {
	if err := r.enc.Encode(model.TimedPose{T: t, Pose: pose}); err != nil {
		return fmt.Errorf("encode pose sample: %w", err)
	}
	return nil
}

// ReadAll decodes every sample from a recorded stream. Samples are
// returned in stream order; recordings are written in time order.
func ReadAll(r io.Reader) ([]model.TimedPose, error) {
	dec := msgpack.NewDecoder(r)
	var frames []model.TimedPose
	for {
		var f model.TimedPose
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return nil, fmt.Errorf("decode pose sample %d: %w", len(frames), err)
		}
		frames = append(frames, f)
	}
}
