package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/jsemit/chunkgen/internal/graph"
)

type HookAddonArgs struct {
	Chunk *graph.RenderedChunk
}

// Returning an empty string means the plugin has nothing to add
type AddonHook func(ctx context.Context, args HookAddonArgs) (string, error)

// Every hook is optional
type Plugin struct {
	Name string

	Banner AddonHook
	Intro  AddonHook
	Outro  AddonHook
	Footer AddonHook
}

type AddonKind uint8

const (
	AddonBanner AddonKind = iota
	AddonIntro
	AddonOutro
	AddonFooter
)

func (kind AddonKind) String() string {
	switch kind {
	case AddonBanner:
		return "banner"
	case AddonIntro:
		return "intro"
	case AddonOutro:
		return "outro"
	case AddonFooter:
		return "footer"
	}
	return ""
}

func (p *Plugin) addonHook(kind AddonKind) AddonHook {
	switch kind {
	case AddonBanner:
		return p.Banner
	case AddonIntro:
		return p.Intro
	case AddonOutro:
		return p.Outro
	case AddonFooter:
		return p.Footer
	}
	return nil
}

// The driver calls hooks on plugins in the order the plugins were registered.
// A nil driver behaves like a driver with no plugins.
type Driver struct {
	plugins []Plugin
}

func NewDriver(plugins []Plugin) *Driver {
	return &Driver{plugins: plugins}
}

// Runs the hooks of one kind, e.g. every plugin's banner. Non-empty results
// are joined with newlines after the prior value. Plugins run one at a time
// so the result doesn't depend on timing.
func (d *Driver) Addon(ctx context.Context, kind AddonKind, args HookAddonArgs, prior string) (string, error) {
	if d == nil {
		return prior, nil
	}

	var parts []string
	if prior != "" {
		parts = append(parts, prior)
	}

	for i := range d.plugins {
		p := &d.plugins[i]
		hook := p.addonHook(kind)
		if hook == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := hook(ctx, args)
		if err != nil {
			return "", fmt.Errorf("plugin %q failed in the %s hook: %w", p.Name, kind, err)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n"), nil
}
