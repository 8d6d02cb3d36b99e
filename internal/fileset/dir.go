package fileset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// LoadDir scans dir for *.pdf files and returns them as Path-backed inputs sorted by
// file name. A leading '~' is expanded to the user's home directory.
func LoadDir(dir string) ([]InputFile, error) {
	base, err := ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, errors.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, errors.Errorf("read dir: %w", err)
	}
	var out []InputFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
			continue
		}
		f, err := FromPath(filepath.Join(abs, name))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FromPath stats path and builds an InputFile named after its base name.
func FromPath(path string) (InputFile, error) {
	p, err := ExpandHome(path)
	if err != nil {
		return InputFile{}, err
	}
	fi, err := os.Stat(p)
	if err != nil {
		return InputFile{}, errors.Errorf("stat %q: %w", path, err)
	}
	if fi.IsDir() {
		return InputFile{}, errors.Errorf("%q is a directory", path)
	}
	return InputFile{Name: filepath.Base(p), Size: fi.Size(), Source: Path(p)}, nil
}

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/reviews/q3
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
