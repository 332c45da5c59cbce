// plugins/scenestats/scenestats.go
package scenestats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bethropolis/prism/internal/plugin"
	"github.com/bethropolis/prism/internal/scene"
)

// Ensure SceneStats implements plugin.Plugin
var _ plugin.Plugin = (*SceneStats)(nil)

// SceneStats counts the nodes of each kind and the scene-level collections.
type SceneStats struct {
	api plugin.EditorAPI
}

// New creates a new instance of the SceneStats plugin.
func New() plugin.Plugin {
	return &SceneStats{}
}

// Name returns the unique name of the plugin.
func (p *SceneStats) Name() string {
	return "SceneStats"
}

// Initialize registers the :stats command.
func (p *SceneStats) Initialize(api plugin.EditorAPI) error {
	p.api = api
	if err := api.RegisterCommand("stats", p.executeStats); err != nil {
		return fmt.Errorf("failed to register 'stats' command: %w", err)
	}
	return nil
}

// Shutdown performs cleanup (nothing needed for this simple plugin).
func (p *SceneStats) Shutdown() error {
	return nil
}

func (p *SceneStats) executeStats(args []string) error {
	if p.api == nil {
		return fmt.Errorf("scenestats plugin not initialized with API")
	}
	var msg string
	p.api.ViewScene(func(s *scene.Scene) { msg = Summary(s) })
	p.api.SetStatusMessage("%s", msg)
	return nil
}

// Summary describes s in one status bar line, e.g.
// "Nodes: 4 (light 2, node 2) | Filters: 1 | States: 0 | Layers: 0".
func Summary(s *scene.Scene) string {
	stats := s.Stats()
	kinds := make([]scene.Kind, 0, len(stats))
	total := 0
	for k, n := range stats {
		kinds = append(kinds, k)
		total += n
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].String() < kinds[j].String() })

	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s %d", k, stats[k])
	}
	return fmt.Sprintf("Nodes: %d (%s) | Filters: %d | States: %d | Layers: %d",
		total, strings.Join(parts, ", "), len(s.Filters), len(s.AppStates), len(s.Layers))
}
