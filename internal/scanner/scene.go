package scanner

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/ironsheep/er-advisor/internal/imaging"
)

// DefaultScene is used when a requested scene has no regions.
const DefaultScene = "default"

// RegionSpec is a named rectangle in screen pixels. A nil coordinate means
// the field was absent from the configuration; such a region is never
// scanned.
type RegionSpec struct {
	Label string `json:"-"`
	X     *int   `json:"x"`
	Y     *int   `json:"y"`
	W     *int   `json:"w"`
	H     *int   `json:"h"`
}

// Spec builds a fully specified RegionSpec.
func Spec(label string, x, y, w, h int) RegionSpec {
	return RegionSpec{Label: label, X: &x, Y: &y, W: &w, H: &h}
}

// Region returns the rectangle, or false if any coordinate is missing.
func (s RegionSpec) Region() (imaging.Region, bool) {
	if s.X == nil || s.Y == nil || s.W == nil || s.H == nil {
		return imaging.Region{}, false
	}
	return imaging.Region{X: *s.X, Y: *s.Y, W: *s.W, H: *s.H}, true
}

// SceneMap maps a scene name to its regions, sorted by label.
type SceneMap map[string][]RegionSpec

// Names returns the scene names in sorted order.
func (m SceneMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the regions for scene, falling back to DefaultScene when
// scene has none. The returned name is the scene actually used.
func (m SceneMap) Resolve(scene string) (string, []RegionSpec, bool) {
	if regions := m[scene]; len(regions) > 0 {
		return scene, regions, true
	}
	if regions := m[DefaultScene]; len(regions) > 0 {
		return DefaultScene, regions, true
	}
	return "", nil, false
}

// Regions resolves scene like Resolve and returns its complete regions,
// skipping those with missing coordinates.
func (m SceneMap) Regions(scene string) ([]imaging.LabeledRegion, error) {
	_, specs, ok := m.Resolve(scene)
	if !ok {
		return nil, &SceneError{Scene: scene, Err: ErrNoRegions}
	}

	out := make([]imaging.LabeledRegion, 0, len(specs))
	for _, spec := range specs {
		if r, ok := spec.Region(); ok {
			out = append(out, imaging.LabeledRegion{Label: spec.Label, Region: r})
		}
	}
	return out, nil
}

// Source names a configuration file and the scene it defines.
type Source struct {
	File  string
	Scene string
}

// DefaultSources are the region files written by the calibration tool.
var DefaultSources = []Source{
	{File: "vision_map.json", Scene: DefaultScene},
	{File: "vision_map_char_select.json", Scene: "char_select"},
	{File: "vision_map_loading.json", Scene: "loading"},
}

// LoadScenes reads each source from dir. Missing files are skipped (with a
// warning for the default scene) and unreadable files are logged and left
// out; loading never fails as a whole.
func LoadScenes(dir string, sources []Source, logger *slog.Logger) SceneMap {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	scenes := make(SceneMap)
	for _, src := range sources {
		path := filepath.Join(dir, src.File)

		data, err := os.ReadFile(path)
		if err != nil {
			switch {
			case errors.Is(err, fs.ErrNotExist) && src.Scene == DefaultScene:
				logger.Warn("default region config missing", "path", path)
			case errors.Is(err, fs.ErrNotExist):
				logger.Debug("region config not present", "path", path, "scene", src.Scene)
			default:
				logger.Warn("failed to read region config", "path", path, "err", err)
			}
			continue
		}

		regions, err := ParseRegions(data)
		if err != nil {
			logger.Warn("failed to parse region config", "path", path, "err", err)
			continue
		}

		scenes[src.Scene] = regions
		logger.Debug("loaded region config", "scene", src.Scene, "regions", len(regions))
	}
	return scenes
}

// ParseRegions decodes a `{label: {x, y, w, h}}` document.
func ParseRegions(data []byte) ([]RegionSpec, error) {
	var raw map[string]RegionSpec
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	regions := make([]RegionSpec, 0, len(raw))
	for label, spec := range raw {
		spec.Label = label
		regions = append(regions, spec)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Label < regions[j].Label })
	return regions, nil
}
