package langserver

import (
	"context"

	"lantern/internal/feedback"
	"lantern/internal/project"
)

// DidOpen stores the editor's text for uri and compiles.
func (c *Core) DidOpen(ctx context.Context, uri, text string) feedback.Feedback {
	return c.notified(func() error {
		c.overlay.Write(project.URIToPath(uri), text)
		return c.compile(ctx)
	})
}

// DidChange stores the last of texts as the new content of uri and compiles.
// Without any text nothing happens apart from draining feedback.
func (c *Core) DidChange(ctx context.Context, uri string, texts ...string) feedback.Feedback {
	return c.notified(func() error {
		if len(texts) == 0 {
			return nil
		}
		c.overlay.Write(project.URIToPath(uri), texts[len(texts)-1])
		return c.compile(ctx)
	})
}

// DidSave drops the overlay for uri, since the file on disk is now current,
// and compiles.
func (c *Core) DidSave(ctx context.Context, uri string) feedback.Feedback {
	return c.notified(func() error {
		c.overlay.Delete(project.URIToPath(uri))
		return c.compile(ctx)
	})
}

// DidClose drops the overlay for uri without compiling.
func (c *Core) DidClose(_ context.Context, uri string) feedback.Feedback {
	return c.notified(func() error {
		c.overlay.Delete(project.URIToPath(uri))
		return nil
	})
}
