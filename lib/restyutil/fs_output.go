package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
)

// InstrumentOutput receives formatted http messages keyed by request id.
type InstrumentOutput interface {
	Write(id string, contents string)
}

type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput clears dir and writes one file per message into it.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id+".txt"), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
