package source

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/lotas/onehandle/internal/applog"
)

// CDPSource enumerates tabs of a Chromium browser started with
// --remote-debugging-port, via the DevTools protocol. The protocol
// reports neither last-access times nor the focused window, so
// LastAccessed is 0 on every tab and focus stays undetermined.
type CDPSource struct {
	// URL is the DevTools HTTP endpoint, e.g. "http://127.0.0.1:9222".
	URL string
}

// NewCDPSource creates a source for the given DevTools endpoint.
func NewCDPSource(url string) *CDPSource {
	return &CDPSource{URL: url}
}

// Snapshot attaches to the browser, lists page targets and resolves
// each target's window.
func (s *CDPSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, s.URL)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Establish the browser connection before issuing commands.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", s.URL, err)
	}

	infos, err := chromedp.Targets(browserCtx)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}

	snap := &Snapshot{}
	nextID := 1
	for _, info := range infos {
		if info.Type != "page" {
			continue
		}
		windowID, err := windowForTarget(browserCtx, info.TargetID)
		if err != nil {
			// Targets can vanish between the list and the lookup.
			applog.Error("cdp.window", err, "target", string(info.TargetID))
			continue
		}

		id := nextID
		nextID++
		snap.Tabs = append(snap.Tabs, RawTab{
			ID:       &id,
			WindowID: windowID,
			Title:    info.Title,
			URL:      info.URL,
		})
	}

	return snap, nil
}

func windowForTarget(ctx context.Context, targetID target.ID) (int, error) {
	var windowID browser.WindowID
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		windowID, _, err = browser.GetWindowForTarget().WithTargetID(targetID).Do(ctx)
		return err
	}))
	if err != nil {
		return 0, fmt.Errorf("window for target: %w", err)
	}
	return int(windowID), nil
}
