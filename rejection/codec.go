// ABOUTME: Rejection-file persistence in tabular text and binary forms
// ABOUTME: Validates loaded files against the live trial set before use

package rejection

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Two on-disk forms, selected by extension:
//
//   - .txt / .tsv: tab-separated columns trigger, accept, rej_tag with
//     one header row and one row per trial in original order. Metadata
//     (bad channels, save revision, timestamp) lives in a YAML sidecar
//     next to the file.
//   - .rej: a single CBOR blob carrying the same columns plus the
//     metadata inline.
//
// Bad channels are written on save but never restored on load; they
// are session configuration, not document state.
const (
	extText    = ".txt"
	extTabular = ".tsv"
	extBinary  = ".rej"

	sidecarSuffix = ".meta.yaml"
)

// fileState is the validated content of a rejection file.
type fileState struct {
	Accept      []bool
	Tags        []string
	BadChannels []string
}

// rejBlob is the on-disk layout of the binary .rej form.
type rejBlob struct {
	Triggers    []int     `cbor:"triggers"`
	Accept      []bool    `cbor:"accept"`
	Tags        []string  `cbor:"tags"`
	BadChannels []string  `cbor:"bad_channels"`
	Revision    string    `cbor:"revision"`
	SavedAt     time.Time `cbor:"saved_at"`
}

// sidecarMeta is the YAML sidecar written next to tabular files.
type sidecarMeta struct {
	BadChannels []string  `yaml:"bad_channels"`
	Revision    string    `yaml:"revision"`
	SavedAt     time.Time `yaml:"saved_at"`
}

// normalizePath appends the tabular default extension when the path
// has none.
func normalizePath(path string) string {
	if path == "" {
		return ""
	}

	if filepath.Ext(path) == "" {
		return path + extText
	}

	return path
}

// isNotExist reports whether err stems from a missing file.
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// readRejectionFile reads and validates a rejection file against the
// live trigger sequence. The returned state is only produced when the
// file matches the trial set in both length and trigger identity; a
// missing rej_tag column is tolerated and yields empty tags.
func readRejectionFile(path string, triggers []int) (*fileState, error) {
	var (
		state *fileState
		err   error
	)

	switch filepath.Ext(path) {
	case extText, extTabular:
		state, err = readTabular(path, triggers)
	case extBinary:
		state, err = readBinary(path, triggers)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}

	if err != nil {
		return nil, err
	}

	return state, nil
}

// readTabular reads the tab-separated text form.
func readTabular(path string, triggers []int) (*fileState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rejection file: %w", err)
	}

	defer func() {
		_ = f.Close() // read-only
	}()

	r := csv.NewReader(f)
	r.Comma = '\t'

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse rejection file: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file has no header row", ErrSizeMismatch)
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	trigCol, ok := col["trigger"]
	if !ok {
		return nil, fmt.Errorf("%w: header missing trigger column", ErrUnknownFormat)
	}

	acceptCol, ok := col["accept"]
	if !ok {
		return nil, fmt.Errorf("%w: header missing accept column", ErrUnknownFormat)
	}

	tagCol, hasTags := col["rej_tag"]

	rows := records[1:]
	if len(rows) != len(triggers) {
		return nil, fmt.Errorf("%w: file has %d rows, session has %d trials", ErrSizeMismatch, len(rows), len(triggers))
	}

	state := &fileState{
		Accept: make([]bool, len(rows)),
		Tags:   make([]string, len(rows)),
	}

	for i, row := range rows {
		trig, err := strconv.Atoi(row[trigCol])
		if err != nil {
			return nil, fmt.Errorf("failed to parse rejection file row %d: %w", i, err)
		}

		if trig != triggers[i] {
			return nil, fmt.Errorf("%w: row %d has trigger %d, session has %d", ErrTriggerMismatch, i, trig, triggers[i])
		}

		accept, err := strconv.ParseBool(row[acceptCol])
		if err != nil {
			return nil, fmt.Errorf("failed to parse rejection file row %d: %w", i, err)
		}

		state.Accept[i] = accept

		if hasTags {
			state.Tags[i] = row[tagCol]
		}
	}

	if meta, err := readSidecar(path); err == nil {
		state.BadChannels = meta.BadChannels
	}

	return state, nil
}

// readBinary reads the single-blob .rej form.
func readBinary(path string, triggers []int) (*fileState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rejection file: %w", err)
	}

	var blob rejBlob
	if err := cbor.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("failed to parse rejection file: %w", err)
	}

	if len(blob.Accept) != len(triggers) {
		return nil, fmt.Errorf("%w: file has %d rows, session has %d trials", ErrSizeMismatch, len(blob.Accept), len(triggers))
	}

	if len(blob.Triggers) != len(triggers) {
		return nil, fmt.Errorf("%w: file has %d triggers, session has %d trials", ErrSizeMismatch, len(blob.Triggers), len(triggers))
	}

	if blob.Tags != nil && len(blob.Tags) != len(triggers) {
		return nil, fmt.Errorf("%w: file has %d tags, session has %d trials", ErrSizeMismatch, len(blob.Tags), len(triggers))
	}

	for i, trig := range blob.Triggers {
		if trig != triggers[i] {
			return nil, fmt.Errorf("%w: row %d has trigger %d, session has %d", ErrTriggerMismatch, i, trig, triggers[i])
		}
	}

	tags := blob.Tags
	if tags == nil {
		tags = make([]string, len(triggers))
	}

	return &fileState{
		Accept:      blob.Accept,
		Tags:        tags,
		BadChannels: blob.BadChannels,
	}, nil
}

// readSidecar reads the YAML metadata next to a tabular file.
func readSidecar(path string) (*sidecarMeta, error) {
	data, err := os.ReadFile(path + sidecarSuffix)
	if err != nil {
		return nil, err
	}

	var meta sidecarMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse rejection sidecar: %w", err)
	}

	return &meta, nil
}

// writeRejectionFile persists the session state to path, choosing the
// form by extension. Writes go through a temp file and rename so a
// failed save never corrupts an existing rejection file.
func writeRejectionFile(path string, triggers []int, accept []bool, tags []string, badChannels []string) error {
	meta := sidecarMeta{
		BadChannels: badChannels,
		Revision:    uuid.NewString(),
		SavedAt:     time.Now().UTC(),
	}

	switch filepath.Ext(path) {
	case extText, extTabular:
		if err := writeTabular(path, triggers, accept, tags); err != nil {
			return err
		}

		return writeSidecar(path, meta)
	case extBinary:
		return writeBinary(path, triggers, accept, tags, meta)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// writeTabular writes the tab-separated text form atomically.
func writeTabular(path string, triggers []int, accept []bool, tags []string) error {
	records := make([][]string, 0, len(triggers)+1)
	records = append(records, []string{"trigger", "accept", "rej_tag"})

	for i := range triggers {
		records = append(records, []string{
			strconv.Itoa(triggers[i]),
			strconv.FormatBool(accept[i]),
			tags[i],
		})
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "rej-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write rejection file: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	w.Comma = '\t'

	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return fmt.Errorf("failed to write rejection file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("failed to write rejection file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("failed to write rejection file: %w", err)
	}

	return nil
}

// writeSidecar writes the YAML metadata next to a tabular file.
func writeSidecar(path string, meta sidecarMeta) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode rejection sidecar: %w", err)
	}

	if err := os.WriteFile(path+sidecarSuffix, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rejection sidecar: %w", err)
	}

	return nil
}

// writeBinary writes the single-blob .rej form atomically.
func writeBinary(path string, triggers []int, accept []bool, tags []string, meta sidecarMeta) error {
	blob := rejBlob{
		Triggers:    triggers,
		Accept:      accept,
		Tags:        tags,
		BadChannels: meta.BadChannels,
		Revision:    meta.Revision,
		SavedAt:     meta.SavedAt,
	}

	data, err := cbor.Marshal(blob)
	if err != nil {
		return fmt.Errorf("failed to encode rejection file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "rej-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write rejection file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return fmt.Errorf("failed to write rejection file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("failed to write rejection file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("failed to write rejection file: %w", err)
	}

	return nil
}

// ReadForDisplay reads a rejection file for read-only viewing (the
// watch mode), validating it against the given trigger sequence. It is
// the exported face of the codec for callers outside the session.
func ReadForDisplay(path string, triggers []int) (accept []bool, tags []string, err error) {
	state, err := readRejectionFile(normalizePath(path), triggers)
	if err != nil {
		return nil, nil, err
	}

	return state.Accept, state.Tags, nil
}
