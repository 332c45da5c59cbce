// Package commands registers the built-in ':' commands.
package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bethropolis/prism/internal/logger"
	"github.com/bethropolis/prism/internal/plugin"
	"github.com/bethropolis/prism/internal/scene"
)

// RegisterAppCommands registers the file, edit, scene and theme commands.
func RegisterAppCommands(api plugin.EditorAPI) {
	RegisterFileCommands(api)
	RegisterEditCommands(api)
	RegisterSceneCommands(api)
	RegisterThemeCommands(api)
}

func register(api plugin.EditorAPI, name string, fn plugin.CommandFunc) {
	if err := api.RegisterCommand(name, fn); err != nil {
		logger.Warnf("Failed to register ':%s' command: %v", name, err)
	}
}

// RegisterFileCommands registers :w, :q, :q!, :wq and :revert.
func RegisterFileCommands(api plugin.EditorAPI) {
	write := func(args []string) error {
		path := strings.Join(args, " ")
		if path == "" && api.ScenePath() == "" {
			return fmt.Errorf("no file name (use :w <path>)")
		}
		return api.Save(path)
	}
	register(api, "w", write)
	register(api, "write", write)

	register(api, "q", func(args []string) error {
		api.RequestQuit(false)
		return nil
	})
	register(api, "q!", func(args []string) error {
		api.RequestQuit(true)
		return nil
	})
	// :wq quits only once the save has gone through.
	register(api, "wq", func(args []string) error {
		if err := write(args); err != nil {
			return err
		}
		api.RequestQuit(false)
		return nil
	})
	register(api, "revert", func(args []string) error {
		return api.Revert()
	})
}

// RegisterEditCommands registers the undo and node commands.
func RegisterEditCommands(api plugin.EditorAPI) {
	register(api, "undo", func(args []string) error { return api.Undo() })
	register(api, "redo", func(args []string) error { return api.Redo() })

	register(api, "add", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: add <node|geometry|light|emitter|audio> [name]")
		}
		kind, ok := scene.ParseKind(args[0])
		if !ok {
			return fmt.Errorf("unknown node kind '%s'", args[0])
		}
		return api.AddNode(kind, strings.Join(args[1:], " "))
	})
	register(api, "rename", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: rename <name>")
		}
		return api.RenameSelected(strings.Join(args, " "))
	})
	register(api, "delete", func(args []string) error { return api.DeleteSelected() })
	register(api, "copy", func(args []string) error { return api.Copy() })
	register(api, "paste", func(args []string) error { return api.Paste() })
	register(api, "hide", func(args []string) error { return api.ToggleSelectedVisible() })
	register(api, "nudge", func(args []string) error {
		if len(args) != 3 {
			return fmt.Errorf("usage: nudge <dx> <dy> <dz>")
		}
		var d [3]float32
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 32)
			if err != nil {
				return fmt.Errorf("invalid offset '%s'", a)
			}
			d[i] = float32(v)
		}
		return api.NudgeSelected(d[0], d[1], d[2])
	})
	register(api, "layer", func(args []string) error {
		return api.SetSelectedLayer(strings.Join(args, " "))
	})
	register(api, "anim", animCommand(api))
}

// animCommand is :anim add <name> [length] and :anim rm <name>, acting on
// the selected node.
func animCommand(api plugin.EditorAPI) plugin.CommandFunc {
	usage := fmt.Errorf("usage: anim add <name> [length] | anim rm <name>")
	return func(args []string) error {
		if len(args) < 2 {
			return usage
		}
		switch args[0] {
		case "add":
			var length time.Duration
			if len(args) > 2 {
				d, err := time.ParseDuration(args[2])
				if err != nil || d < 0 {
					return fmt.Errorf("invalid length '%s'", args[2])
				}
				length = d
			}
			if len(args) > 3 {
				return usage
			}
			return api.AddAnimation(args[1], length)
		case "rm":
			return api.RemoveAnimation(strings.Join(args[1:], " "))
		}
		return usage
	}
}

// RegisterSceneCommands registers the filter and app state commands.
func RegisterSceneCommands(api plugin.EditorAPI) {
	register(api, "filter", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: filter <kind> [name]")
		}
		return api.AddFilter(args[0], strings.Join(args[1:], " "))
	})
	register(api, "togglefilter", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: togglefilter <name>")
		}
		return api.ToggleFilter(strings.Join(args, " "))
	})
	register(api, "rmfilter", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: rmfilter <name>")
		}
		return api.RemoveFilter(strings.Join(args, " "))
	})
	register(api, "state", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: state <kind> [name]")
		}
		return api.AddAppState(args[0], strings.Join(args[1:], " "))
	})
	register(api, "togglestate", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: togglestate <name>")
		}
		return api.ToggleAppState(strings.Join(args, " "))
	})
	register(api, "rmstate", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: rmstate <name>")
		}
		return api.RemoveAppState(strings.Join(args, " "))
	})
}

// RegisterThemeCommands registers only theme-related commands
func RegisterThemeCommands(api plugin.EditorAPI) {
	themeCmdFunc := func(args []string) error {
		if len(args) == 0 {
			api.SetStatusMessage("Current theme: %s", api.GetTheme().Name)
			return nil
		}

		themeName := strings.Join(args, " ") // Allow theme names with spaces
		if err := api.SetTheme(themeName); err != nil {
			themeList := strings.Join(api.ListThemes(), ", ")
			return fmt.Errorf("theme '%s' not found. Available: %s", themeName, themeList)
		}
		api.SetStatusMessage("Theme set to: %s", themeName)
		return nil
	}

	themeListCmdFunc := func(args []string) error {
		api.SetStatusMessage("Available themes: %s", strings.Join(api.ListThemes(), ", "))
		return nil
	}

	register(api, "theme", themeCmdFunc)
	register(api, "themes", themeListCmdFunc)
}
