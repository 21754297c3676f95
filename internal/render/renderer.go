package render

import "context"

// Renderer turns a printable HTML document into PDF bytes. Handlers hold
// this interface so tests can substitute a fake for the real browser.
type Renderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
	Close()
}
