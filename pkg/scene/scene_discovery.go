package scene

import (
	"fmt"
	"sort"
	"strings"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Create
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
	Width       int    `json:"width"`  // Default image width
	Height      int    `json:"height"` // Default image height
}

type builtin struct {
	description string
	create      func() *Scene
}

var builtins = map[string]builtin{
	"cornell": {
		description: "Cornell box with two blocks and a ceiling area light",
		create:      NewCornellScene,
	},
	"spheres": {
		description: "Diffuse spheres lit by a quad light and a small sphere light",
		create:      NewSpheresScene,
	},
	"empty": {
		description: "No geometry, renders black",
		create:      NewEmptyScene,
	},
}

// Names returns the IDs of all built-in scenes in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for all built-in scenes, sorted by ID
func List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, name := range Names() {
		entry := builtins[name]
		s := entry.create()
		infos = append(infos, SceneInfo{
			ID:          name,
			DisplayName: titleCase(name),
			Description: entry.description,
			Width:       s.Camera.Width,
			Height:      s.Camera.Height,
		})
	}
	return infos
}

// Create builds the named scene. The scene still has to be preprocessed.
func Create(name string) (*Scene, error) {
	entry, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return entry.create(), nil
}

// titleCase converts an identifier-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
