package levels

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/milk9111/gecore/scene"
)

//go:embed *.json *.yaml
var LevelsFS embed.FS

// Names lists the embedded levels without extension.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if _, err := scene.FormatFromPath(entry.Name()); err != nil {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}

// Load returns the raw bytes and format of a level. The extension is optional.
func Load(name string) ([]byte, scene.Format, error) {
	candidates := []string{name}
	if path.Ext(name) == "" {
		candidates = []string{name + ".json", name + ".yaml", name + ".yml"}
	}
	for _, file := range candidates {
		data, err := fs.ReadFile(LevelsFS, file)
		if err != nil {
			continue
		}
		f, err := scene.FormatFromPath(file)
		if err != nil {
			return nil, f, err
		}
		return data, f, nil
	}
	return nil, scene.JSON, eris.Errorf("levels: no level named %q", name)
}

func LoadDocument(name string) (scene.Document, error) {
	data, f, err := Load(name)
	if err != nil {
		return scene.Document{}, err
	}
	doc, err := scene.Unmarshal(data, f)
	if err != nil {
		return scene.Document{}, eris.Wrapf(err, "levels: %s", name)
	}
	return doc, nil
}
