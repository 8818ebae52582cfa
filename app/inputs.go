package app

import (
	"path/filepath"
	"strings"

	"cyclelens/adapters/csvtable"
	"cyclelens/adapters/excel"
	"cyclelens/internal/dataset"
	"cyclelens/ports"
)

// InputPaths names the export files to load. Physiological and Journal are
// required downstream; the rest may be empty.
type InputPaths struct {
	Physiological string
	Journal       string
	Sleep         string
	Workouts      string
}

// LoadInputs reads each input file with the reader matching its extension.
func LoadInputs(paths InputPaths) (dataset.JoinInputs, error) {
	var in dataset.JoinInputs
	var err error

	if in.Physiological, err = readerFor(paths.Physiological).ReadFile(paths.Physiological); err != nil {
		return in, err
	}
	if in.Journal, err = readerFor(paths.Journal).ReadFile(paths.Journal); err != nil {
		return in, err
	}
	if in.Sleep, err = readerFor(paths.Sleep).ReadFile(paths.Sleep); err != nil {
		return in, err
	}
	if in.Workouts, err = readerFor(paths.Workouts).ReadFile(paths.Workouts); err != nil {
		return in, err
	}
	return in, nil
}

func readerFor(path string) ports.TableReader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return excel.NewReader()
	default:
		return csvtable.NewReader()
	}
}
