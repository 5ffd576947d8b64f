// Package deps reports whether the external programs SlowMovie shells out to
// are installed.
package deps

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"slowmovie/internal/config"
	"slowmovie/internal/frames"
	"slowmovie/internal/launcher"
)

// Requirement defines an external dependency SlowMovie relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			if resolved, err := exec.LookPath(cmd); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				status.Command = resolved
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}

// Requirements lists the programs a run needs under cfg.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{
			Name:        "ffprobe",
			Command:     frames.ResolveBinary(cfg.Paths.WorkDir, "ffprobe", cfg.Tools.FFprobe),
			Description: "Counts movie frames",
		},
		{
			Name:        "ffmpeg",
			Command:     frames.ResolveBinary(cfg.Paths.WorkDir, "ffmpeg", cfg.Tools.FFmpeg),
			Description: "Extracts the wallpaper frame",
		},
	}

	configurator := strings.TrimSpace(cfg.Configurator.Path)
	if located, err := launcher.Locate(configurator); err == nil {
		configurator = located
	} else if configurator == "" {
		configurator = launcher.DefaultName
	}
	reqs = append(reqs, Requirement{
		Name:        "Configurator",
		Command:     configurator,
		Description: "Edits movie and interval settings",
		Optional:    !cfg.Configurator.LaunchOnStart,
	})

	if len(cfg.Wallpaper.Command) > 0 {
		reqs = append(reqs, Requirement{
			Name:        "Wallpaper command",
			Command:     cfg.Wallpaper.Command[0],
			Description: "Applies the frame (wallpaper.command)",
		})
	} else {
		reqs = append(reqs, platformWallpaperRequirements()...)
	}
	if cfg.Alerts.Desktop {
		reqs = append(reqs, platformAlertRequirements()...)
	}
	return reqs
}

func platformWallpaperRequirements() []Requirement {
	switch runtime.GOOS {
	case "windows":
		return nil
	case "darwin":
		return []Requirement{{Name: "osascript", Command: "osascript", Description: "Applies the frame via System Events"}}
	default:
		return []Requirement{
			{Name: "gsettings", Command: "gsettings", Description: "Applies the frame on GNOME desktops", Optional: true},
			{Name: "feh", Command: "feh", Description: "Applies the frame on other X11 desktops", Optional: true},
		}
	}
}

func platformAlertRequirements() []Requirement {
	switch runtime.GOOS {
	case "windows", "darwin":
		return nil
	default:
		return []Requirement{
			{Name: "zenity", Command: "zenity", Description: "Shows error dialogs", Optional: true},
			{Name: "notify-send", Command: "notify-send", Description: "Shows error notifications", Optional: true},
		}
	}
}

// MissingRequired returns the required dependencies that are unavailable.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
