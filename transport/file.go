package transport

import (
	"io"
	"os"
)

// OSFilesystem wraps os.File directly: spec §6's fopen/fread/fwrite/
// fseek/ftell/fclose contract is a 1:1 match for os.File plus io.Seek*,
// so no third-party VFS layer earns its keep here (see DESIGN.md).
type OSFilesystem struct{}

func (OSFilesystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFilesystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func (OSFilesystem) Open(path string) (File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	return osFile{f}, nil
}

type osFile struct{ *os.File }

func (f osFile) Seek(offset int64, origin SeekOrigin) (int64, error) {
	return f.File.Seek(offset, int(origin))
}

func (f osFile) Tell() (int64, error) {
	return f.File.Seek(0, io.SeekCurrent)
}
