package blobstore

import (
	"context"
	"io"

	"github.com/hupe1980/cubego/resource"
)

// ThrottledStore decorates a Store with a resource controller. Streaming
// creates take a flush worker slot for their lifetime, and all byte
// traffic is charged against the controller's IO budget. A nil controller
// makes it a plain pass-through.
type ThrottledStore struct {
	inner Store
	ctrl  *resource.Controller
}

// NewThrottledStore wraps inner with the given controller.
func NewThrottledStore(inner Store, ctrl *resource.Controller) *ThrottledStore {
	return &ThrottledStore{inner: inner, ctrl: ctrl}
}

func (s *ThrottledStore) Open(ctx context.Context, name string) (Blob, error) {
	blob, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	return &throttledBlob{Blob: blob, ctrl: s.ctrl}, nil
}

func (s *ThrottledStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := s.ctrl.AcquireWorker(ctx); err != nil {
		return nil, err
	}

	w, err := s.inner.Create(ctx, name)
	if err != nil {
		s.ctrl.ReleaseWorker()
		return nil, err
	}

	return &throttledWritableBlob{
		inner: w,
		w:     resource.NewThrottledWriter(ctx, w, s.ctrl),
		ctrl:  s.ctrl,
	}, nil
}

func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.ctrl.WaitIO(ctx, len(data)); err != nil {
		return err
	}

	return s.inner.Put(ctx, name, data)
}

func (s *ThrottledStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

func (s *ThrottledStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type throttledBlob struct {
	Blob
	ctrl *resource.Controller
}

func (b *throttledBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := b.ctrl.WaitIO(ctx, len(p)); err != nil {
		return 0, err
	}

	return b.Blob.ReadAt(ctx, p, off)
}

func (b *throttledBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	rc, err := b.Blob.ReadRange(ctx, off, length)
	if err != nil {
		return nil, err
	}

	return &throttledReadCloser{
		r:      resource.NewThrottledReader(ctx, rc, b.ctrl),
		closer: rc,
	}, nil
}

type throttledReadCloser struct {
	r      io.Reader
	closer io.Closer
}

func (t *throttledReadCloser) Read(p []byte) (int, error) { return t.r.Read(p) }

func (t *throttledReadCloser) Close() error { return t.closer.Close() }

type throttledWritableBlob struct {
	inner  WritableBlob
	w      io.Writer
	ctrl   *resource.Controller
	closed bool
}

func (w *throttledWritableBlob) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

func (w *throttledWritableBlob) Sync() error {
	return w.inner.Sync()
}

func (w *throttledWritableBlob) Close() error {
	if w.closed {
		return nil
	}

	w.closed = true
	w.ctrl.ReleaseWorker()

	return w.inner.Close()
}
