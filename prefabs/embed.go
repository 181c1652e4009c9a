package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed *.yaml
var PrefabsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Dir is the on-disk directory whose files override the embedded ones. Files
// that only exist on disk are picked up as well.
var Dir = "prefabs"

// Load reads a prefab, scenario or layer file by name.
func Load(name string) ([]byte, error) {
	return read(PrefabsFS, cleanPrefabPath(name))
}

// LoadScript reads a tengo script. "guard.tengo", "scripts/guard.tengo" and
// "prefabs/scripts/guard.tengo" all name the same file.
func LoadScript(name string) ([]byte, error) {
	return read(ScriptsFS, cleanScriptPath(name))
}

func read(embedded embed.FS, clean string) ([]byte, error) {
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return embedded.ReadFile(clean)
}

// ModTime reports when the disk copy of name last changed.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// List returns the prefab files ending in ext, embedded and on disk, sorted
// and without duplicates.
func List(ext string) ([]string, error) {
	seen := make(map[string]struct{})
	add := func(name string) {
		if strings.EqualFold(path.Ext(name), ext) {
			seen[name] = struct{}{}
		}
	}

	embedded, err := fs.ReadDir(PrefabsFS, ".")
	if err != nil {
		return nil, err
	}
	for _, e := range embedded {
		if !e.IsDir() {
			add(e.Name())
		}
	}

	if disk, err := os.ReadDir(Dir); err == nil {
		for _, e := range disk {
			if !e.IsDir() {
				add(e.Name())
			}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	s = strings.TrimPrefix(s, "prefabs/")
	return s
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	s = strings.TrimPrefix(s, "prefabs/")
	s = strings.TrimPrefix(s, "scripts/")
	return "scripts/" + s
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
