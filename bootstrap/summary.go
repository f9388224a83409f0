package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/transcriptiond/component"
)

// Summary returns the startup summary lines: service header, infrastructure
// components and HTTP routes.
func (a *App[C]) Summary(startup time.Duration) []string {
	lines := []string{fmt.Sprintf("%s %s started in %s", a.Name, a.Version, startup.Round(time.Millisecond))}

	for _, c := range a.Components.All() {
		d, ok := c.(component.Describable)
		if !ok {
			continue
		}
		desc := d.Describe()
		name := desc.Name
		if name == "" {
			name = c.Name()
		}
		line := fmt.Sprintf("  [%s] %s", desc.Type, name)
		if desc.Details != "" {
			line += "  " + desc.Details
		}
		lines = append(lines, line)
	}

	for _, c := range a.Components.All() {
		rp, ok := c.(component.RouteProvider)
		if !ok {
			continue
		}
		for _, r := range rp.Routes() {
			lines = append(lines, fmt.Sprintf("  %-7s %s", r.Method, r.Path))
		}
	}
	return lines
}

func (a *App[C]) displaySummary(startup time.Duration) {
	a.Logger.Info("Startup summary\n" + strings.Join(a.Summary(startup), "\n"))
}
