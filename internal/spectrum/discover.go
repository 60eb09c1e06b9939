package spectrum

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// Find lists the entries of dir whose name matches the shell pattern, in
// directory enumeration order. An empty result is not an error here.
// Negated classes may be written either as [!...] or [^...].
func Find(pattern, dir string) ([]string, error) {
	pattern = shellPattern(pattern)
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	d, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	defer d.Close()

	names, err := d.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	var result []string
	for _, name := range names {
		if ok, _ := path.Match(pattern, name); ok {
			result = append(result, filepath.Join(dir, name))
		}
	}
	return result, nil
}

// RequireFiles is Find for callers that cannot proceed without input files
func RequireFiles(pattern, dir string) ([]string, error) {
	files, err := Find(pattern, dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &EmptyResultError{Pattern: pattern, Dir: dir}
	}
	return files, nil
}

// shellPattern rewrites fnmatch-style negated classes into the [^...] form path.Match expects
func shellPattern(pattern string) string {
	b := []byte(pattern)
	inClass := false
	for i := 0; i < len(b); i++ {
		switch {
		case b[i] == '\\' && i+1 < len(b):
			i++
		case b[i] == '[' && !inClass:
			inClass = true
			if i+1 < len(b) && b[i+1] == '!' {
				b[i+1] = '^'
				i++
			}
		case b[i] == ']' && inClass:
			inClass = false
		}
	}
	return string(b)
}
