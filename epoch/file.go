// ABOUTME: Reads and writes the .epochs trial-data container
// ABOUTME: CBOR-encoded trials with shape validation on load

package epoch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
)

// epochsFile is the on-disk layout of an .epochs container.
type epochsFile struct {
	Channels     []string      `cbor:"channels"`
	SamplingRate float64       `cbor:"sampling_rate"`
	Triggers     []int         `cbor:"triggers"`
	Data         [][][]float64 `cbor:"data"`
}

// ReadFile loads a trial set from a CBOR .epochs file and validates
// its shape.
func ReadFile(path string) (*Trials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read epochs file: %w", err)
	}

	var f epochsFile
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse epochs file: %w", err)
	}

	trials := &Trials{
		Channels:     f.Channels,
		SamplingRate: f.SamplingRate,
		Triggers:     f.Triggers,
		Data:         f.Data,
	}

	if err := trials.Validate(); err != nil {
		return nil, fmt.Errorf("invalid epochs file %s: %w", path, err)
	}

	return trials, nil
}

// WriteFile saves a trial set as a CBOR .epochs file. The write goes
// through a temp file and rename so a crash never leaves a truncated
// container behind.
func WriteFile(path string, trials *Trials) error {
	if err := trials.Validate(); err != nil {
		return fmt.Errorf("refusing to write invalid trial set: %w", err)
	}

	f := epochsFile{
		Channels:     trials.Channels,
		SamplingRate: trials.SamplingRate,
		Triggers:     trials.Triggers,
		Data:         trials.Data,
	}

	data, err := cbor.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode epochs file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "epochs-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write epochs file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return fmt.Errorf("failed to write epochs file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("failed to write epochs file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("failed to write epochs file: %w", err)
	}

	return nil
}
