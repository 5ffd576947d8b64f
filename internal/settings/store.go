package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"slowmovie/internal/failure"
	"slowmovie/internal/fileutil"
	"slowmovie/internal/logging"
)

// record is the on-disk layout. Field names and integer encodings are
// shared with the configurator and must not change.
type record struct {
	MoviePath    string `json:"movie_path"`
	TimeInterval uint32 `json:"time_interval"`
	TimeType     uint8  `json:"time_type"`
	FrameCount   uint64 `json:"frame_count"`
	ExitFlag     uint8  `json:"exit_flag"`
}

func toRecord(s Settings) record {
	r := record{
		MoviePath:    s.MoviePath,
		TimeInterval: s.IntervalValue,
		TimeType:     uint8(s.IntervalUnit),
		FrameCount:   s.FrameIndex,
	}
	if s.ExitRequested {
		r.ExitFlag = 1
	}
	return r
}

func (r record) settings() Settings {
	return Settings{
		MoviePath:     r.MoviePath,
		IntervalValue: r.TimeInterval,
		IntervalUnit:  Unit(r.TimeType),
		FrameIndex:    r.FrameCount,
		ExitRequested: r.ExitFlag != 0,
	}
}

// Store is the only sanctioned reader and writer of the settings file.
type Store struct {
	fs           afero.Fs
	path         string
	defaultMovie string
	logger       *slog.Logger
}

// NewStore creates a store for the settings file at path. defaultMovie is
// the movie recorded when the file has to be created.
func NewStore(fsys afero.Fs, path, defaultMovie string, logger *slog.Logger) *Store {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Store{
		fs:           fsys,
		path:         path,
		defaultMovie: defaultMovie,
		logger:       logging.NewComponentLogger(logger, "settings"),
	}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Defaults returns the settings a fresh store starts from.
func (s *Store) Defaults() Settings {
	return Defaults(s.defaultMovie)
}

// Load reads the settings file. It never fails: a missing file is replaced
// by the defaults, and an unreadable or malformed file yields the defaults.
// A malformed file is copied to BackupPath before the next Save can replace
// it. Fields absent from the file keep their default values.
func (s *Store) Load() Settings {
	defaults := s.Defaults()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if saveErr := s.Save(defaults); saveErr != nil {
				logging.WarnWithContext(s.logger, "settings defaults not written", "settings_write_failed",
					logging.String("path", s.path),
					logging.Error(saveErr),
					logging.String(logging.FieldErrorHint, "check permissions on the working directory"),
					logging.String(logging.FieldImpact, "defaults used for this run only"),
				)
			} else {
				s.logger.Info("settings file created with defaults",
					logging.String("path", s.path),
					logging.String(logging.FieldEventType, "settings_created"),
				)
			}
			return defaults
		}
		logging.WarnWithContext(s.logger, "settings file unreadable; using defaults", "settings_read_failed",
			logging.String("path", s.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "frame position and interval reset for this run"),
		)
		return defaults
	}

	r := toRecord(defaults)
	if err := json.Unmarshal(data, &r); err != nil {
		logging.WarnWithContext(s.logger, "settings file malformed; using defaults", "settings_parse_failed",
			logging.String("path", s.path),
			logging.Error(err),
			logging.String("backup", s.BackupPath()),
			logging.String(logging.FieldErrorHint, "fix or delete the settings file"),
			logging.String(logging.FieldImpact, "frame position and interval reset for this run"),
		)
		s.backup(data)
		return defaults
	}
	return r.settings()
}

// BackupPath is where a malformed settings file is preserved.
func (s *Store) BackupPath() string {
	return s.path + ".bad"
}

func (s *Store) backup(data []byte) {
	target := s.BackupPath()
	if existing, err := afero.ReadFile(s.fs, target); err == nil && bytes.Equal(existing, data) {
		return
	}
	if err := fileutil.WriteFileAtomic(s.fs, target, data, 0o644); err != nil {
		logging.WarnWithContext(s.logger, "malformed settings not backed up", "settings_backup_failed",
			logging.String("path", target),
			logging.Error(err),
			logging.String(logging.FieldImpact, "the next save replaces the malformed file"),
		)
	}
}

// Save replaces the settings file with st.
func (s *Store) Save(st Settings) error {
	data, err := json.MarshalIndent(toRecord(st), "", "  ")
	if err != nil {
		return failure.Wrap(failure.ErrSettingsIO, "settings", "encode", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(s.fs, s.path, data, 0o644); err != nil {
		return failure.Wrap(failure.ErrSettingsIO, "settings", fmt.Sprintf("write %s", filepath.Base(s.path)), err)
	}
	return nil
}

// Update loads the current settings, applies mutate, and saves the result
// when it differs. It returns the settings as persisted.
func (s *Store) Update(mutate func(*Settings)) (Settings, error) {
	current := s.Load()
	next := current
	mutate(&next)
	if next == current {
		return current, nil
	}
	if err := s.Save(next); err != nil {
		return current, err
	}
	return next, nil
}

// ValidateMovie checks that path names a readable regular file.
func ValidateMovie(fsys afero.Fs, path string) error {
	if path == "" {
		return failure.Wrap(failure.ErrMovieUnavailable, "settings", "movie path is empty", nil)
	}
	ok, err := fileutil.IsRegularFile(fsys, path)
	if err != nil {
		return failure.Wrap(failure.ErrMovieUnavailable, "settings", path, err)
	}
	if !ok {
		return failure.Wrap(failure.ErrMovieUnavailable, "settings", fmt.Sprintf("%s is not a file", path), nil)
	}
	f, err := fsys.Open(path)
	if err != nil {
		return failure.Wrap(failure.ErrMovieUnavailable, "settings", path, err)
	}
	return f.Close()
}
