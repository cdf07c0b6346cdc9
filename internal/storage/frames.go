package storage

import (
	"sync"

	"github.com/san-kum/rubix/internal/engine"
	"github.com/san-kum/rubix/internal/turn"
)

// FrameRecord is one row of frames.csv. Axis is empty and Layer is -1 while
// the machine is idle.
type FrameRecord struct {
	Frame        uint64  `json:"frame"`
	VisibleFaces int     `json:"visible_faces"`
	RotY         float64 `json:"rot_y"`
	State        string  `json:"state"`
	Axis         string  `json:"axis"`
	Layer        int     `json:"layer"`
	Angle        float64 `json:"angle"`
	Turns        int     `json:"turns"`
}

// RecordOf converts an engine snapshot.
func RecordOf(s engine.Snapshot) FrameRecord {
	f := FrameRecord{
		Frame:        s.Frame,
		VisibleFaces: s.VisibleFaces,
		RotY:         s.Orientation.RotY,
		State:        s.State.String(),
		Layer:        -1,
		Turns:        s.Turns,
	}
	if s.State == turn.Turning {
		f.Axis = s.Active.Axis.String()
		f.Layer = s.Active.Layer
		f.Angle = s.Active.Angle
	}
	return f
}

// Recorder is an engine.Observer that keeps every frame.
type Recorder struct {
	mu     sync.Mutex
	frames []FrameRecord
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) OnFrame(s engine.Snapshot) {
	r.mu.Lock()
	r.frames = append(r.frames, RecordOf(s))
	r.mu.Unlock()
}

// Frames returns a copy of the recorded frames.
func (r *Recorder) Frames() []FrameRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FrameRecord(nil), r.frames...)
}

// Summarize computes run metrics from recorded frames.
func Summarize(frames []FrameRecord) map[string]float64 {
	m := map[string]float64{}
	if len(frames) == 0 {
		return m
	}
	var faces, turning float64
	for _, f := range frames {
		faces += float64(f.VisibleFaces)
		if f.State == turn.Turning.String() {
			turning++
		}
	}
	n := float64(len(frames))
	m["turns"] = float64(frames[len(frames)-1].Turns)
	m["mean_visible_faces"] = faces / n
	m["turning_fraction"] = turning / n
	return m
}
