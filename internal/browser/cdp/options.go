// internal/browser/cdp/options.go
package cdp

import (
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/uidriver/internal/config"
)

// AllocatorOptions translates the browser configuration into chromedp
// allocator options.
func AllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		// Required on hardened hosts and inside containers.
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.ViewportWidth > 0 && cfg.ViewportHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.ViewportWidth, cfg.ViewportHeight))
	}
	if cfg.EmulateTouch {
		opts = append(opts, chromedp.Flag("touch-events", "enabled"))
	}

	for _, arg := range cfg.Args {
		// chromedp adds the dashes itself.
		key, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if key == "" {
			continue
		}
		if !hasValue {
			opts = append(opts, chromedp.Flag(key, true))
			continue
		}
		opts = append(opts, chromedp.Flag(key, value))
	}
	return opts
}
