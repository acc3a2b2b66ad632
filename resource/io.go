package resource

import (
	"context"
	"io"
)

// ThrottledWriter applies the controller's IO budget to every Write.
type ThrottledWriter struct {
	ctx context.Context
	w   io.Writer
	c   *Controller
}

// NewThrottledWriter wraps w. The context bounds how long a Write may
// wait for budget.
func NewThrottledWriter(ctx context.Context, w io.Writer, c *Controller) *ThrottledWriter {
	return &ThrottledWriter{ctx: ctx, w: w, c: c}
}

func (t *ThrottledWriter) Write(p []byte) (int, error) {
	if err := t.c.WaitIO(t.ctx, len(p)); err != nil {
		return 0, err
	}

	return t.w.Write(p)
}

// ThrottledReader applies the controller's IO budget to every Read. The
// wait is charged for the full buffer even when the read comes up short,
// which overcounts slightly on the final chunk of a stream.
type ThrottledReader struct {
	ctx context.Context
	r   io.Reader
	c   *Controller
}

// NewThrottledReader wraps r. The context bounds how long a Read may
// wait for budget.
func NewThrottledReader(ctx context.Context, r io.Reader, c *Controller) *ThrottledReader {
	return &ThrottledReader{ctx: ctx, r: r, c: c}
}

func (t *ThrottledReader) Read(p []byte) (int, error) {
	if err := t.c.WaitIO(t.ctx, len(p)); err != nil {
		return 0, err
	}

	return t.r.Read(p)
}
