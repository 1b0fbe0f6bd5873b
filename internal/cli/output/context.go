package output

import (
	"context"
	"os"
)

// rendererKey is used to store the renderer in context.
type rendererKey struct{}

// NewContext stores the renderer in the context.
func NewContext(ctx context.Context, r *Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// FromContext retrieves the renderer from the context, falling back to
// a plain markdown renderer so callers never get nil.
func FromContext(ctx context.Context) *Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*Renderer); ok {
		return r
	}
	return NewRenderer(os.Stdout, os.Stderr, ModeAuto)
}
