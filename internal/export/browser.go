package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/render"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const defaultBrowserTimeout = 30 * time.Second

// BrowserRasterizer screenshots the SVG rendering of a scene in headless
// Chrome. It launches a browser per call unless ControlURL points at a
// running one.
type BrowserRasterizer struct {
	Scale      float64
	Bin        string
	ControlURL string
	Timeout    time.Duration
}

// Rasterize implements Rasterizer.
func (b *BrowserRasterizer) Rasterize(ctx context.Context, scene render.Scene) ([]byte, error) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = defaultBrowserTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	controlURL := b.ControlURL
	if controlURL == "" {
		l := launcher.New().Context(ctx).Headless(true)
		if b.Bin != "" {
			l = l.Bin(b.Bin)
		}
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		defer l.Kill()
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	if b.ControlURL == "" {
		defer func() { _ = browser.Close() }()
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	scale := domain.Float64WithDefault(1, b.Scale)
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             scene.Width,
		Height:            scene.Height,
		DeviceScaleFactor: scale,
		Mobile:            false,
	}).Call(page); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	var doc bytes.Buffer
	doc.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"></head><body style="margin:0">`)
	writeSVGBody(&doc, scene)
	doc.WriteString(`</body></html>`)
	if err := page.SetDocumentContent(doc.String()); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for document: %w", err)
	}

	data, err := page.Screenshot(false, nil)
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return data, nil
}
