package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run directory or one of its files is
// missing.
var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var framesHeader = []string{"frame", "visible_faces", "rot_y", "state", "axis", "layer", "angle", "turns"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one offline render.
type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Size       float64            `json:"size"`
	Projection string             `json:"projection"`
	Colors     string             `json:"colors"`
	Palette    string             `json:"palette"`
	TrackFaces bool               `json:"track_faces"`
	FPS        int                `json:"fps"`
	Frames     int                `json:"frames"`
	Images     []string           `json:"images,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Create allocates a new run ID and its directory.
func (s *Store) Create() (id, dir string, err error) {
	id = uuid.NewString()
	dir = s.RunDir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", err
	}
	return id, dir, nil
}

// RunDir is where the files of run id live.
func (s *Store) RunDir(id string) string {
	return filepath.Join(s.baseDir, id)
}

// Save writes metadata.json and frames.csv. A run without an ID gets a new
// one. Metrics are computed from frames when meta has none.
func (s *Store) Save(meta RunMetadata, frames []FrameRecord) (string, error) {
	if meta.ID == "" {
		id, _, err := s.Create()
		if err != nil {
			return "", err
		}
		meta.ID = id
	}
	runDir := s.RunDir(meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Frames = len(frames)
	if meta.Metrics == nil {
		meta.Metrics = Summarize(frames)
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(framesHeader); err != nil {
		return "", err
	}
	for _, f := range frames {
		if err := w.Write(f.row()); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.RunDir(runID), metadataFile))
	if err != nil {
		return nil, notFound(runID, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: run %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadFrames reads frames.csv. Malformed rows are skipped.
func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	file, err := os.Open(filepath.Join(s.RunDir(runID), framesFile))
	if err != nil {
		return nil, notFound(runID, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []FrameRecord{}, nil
	}

	frames := make([]FrameRecord, 0, len(records)-1)
	for _, record := range records[1:] {
		f, err := parseRow(record)
		if err != nil {
			continue
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func notFound(runID string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return err
}

func (f FrameRecord) row() []string {
	return []string{
		strconv.FormatUint(f.Frame, 10),
		strconv.Itoa(f.VisibleFaces),
		strconv.FormatFloat(f.RotY, 'f', 6, 64),
		f.State,
		f.Axis,
		strconv.Itoa(f.Layer),
		strconv.FormatFloat(f.Angle, 'f', 6, 64),
		strconv.Itoa(f.Turns),
	}
}

func parseRow(record []string) (FrameRecord, error) {
	if len(record) != len(framesHeader) {
		return FrameRecord{}, fmt.Errorf("storage: expected %d fields, got %d", len(framesHeader), len(record))
	}
	var (
		f   FrameRecord
		err error
	)
	if f.Frame, err = strconv.ParseUint(record[0], 10, 64); err != nil {
		return f, err
	}
	if f.VisibleFaces, err = strconv.Atoi(record[1]); err != nil {
		return f, err
	}
	if f.RotY, err = strconv.ParseFloat(record[2], 64); err != nil {
		return f, err
	}
	f.State, f.Axis = record[3], record[4]
	if f.Layer, err = strconv.Atoi(record[5]); err != nil {
		return f, err
	}
	if f.Angle, err = strconv.ParseFloat(record[6], 64); err != nil {
		return f, err
	}
	if f.Turns, err = strconv.Atoi(record[7]); err != nil {
		return f, err
	}
	return f, nil
}
