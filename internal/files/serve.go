package files

import (
	"net/http"
	"os"
)

// Handler serves stored files under PublicPrefix. Directories answer 404 so
// the upload tree cannot be enumerated.
func (s *Storage) Handler() http.Handler {
	return http.StripPrefix(PublicPrefix+"/", http.FileServer(filesOnly{http.Dir(s.Dir())}))
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
