package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/rubix/internal/config"
	"github.com/san-kum/rubix/internal/engine"
)

func recordRun(t *testing.T, frames int) []FrameRecord {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 42
	cfg.StartDelay = 0
	rec := NewRecorder()
	eng, err := engine.NewOffline(cfg, engine.WithObserver(rec))
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()
	for i := 0; i < frames; i++ {
		if err := eng.Step(); err != nil {
			t.Fatal(err)
		}
	}
	return rec.Frames()
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	frames := recordRun(t, 60)
	runID, err := st.Save(RunMetadata{Seed: 42, Projection: "orthographic"}, frames)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 || meta.Frames != 60 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["mean_visible_faces"] <= 0 {
		t.Error("expected computed metrics")
	}

	loaded, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(loaded) != len(frames) {
		t.Fatalf("expected %d frames, got %d", len(frames), len(loaded))
	}
	last := loaded[len(loaded)-1]
	if last.Frame != 60 || last.Turns != frames[len(frames)-1].Turns {
		t.Errorf("last frame mismatch: %+v", last)
	}
}

func TestRecorderTracksTurns(t *testing.T) {
	frames := recordRun(t, 60)
	turning := 0
	for _, f := range frames {
		if f.Axis != "" {
			turning++
			if f.Layer < 0 || f.Layer > 2 || f.Angle <= 0 {
				t.Errorf("bad active turn in %+v", f)
			}
		} else if f.Layer != -1 {
			t.Errorf("idle frame should have layer -1: %+v", f)
		}
	}
	if turning == 0 {
		t.Error("expected a turn within 60 frames")
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{}, nil); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{}, recordRun(t, 5))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "frames.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadFrames("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadFrames: expected ErrRunNotFound, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Palette: "blush"}, recordRun(t, 3))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatal(err)
	}
	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Run.ID != runID || len(out.Frames) != 3 || out.Run.Palette != "blush" {
		t.Errorf("unexpected export %+v", out.Run)
	}
}
