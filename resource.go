package aspen

// resource is a GPU object handle that is released exactly once. The zero
// handle means "released" (or never allocated); Release on it is a no-op.
type resource struct {
	id      uint32
	release func(uint32)
}

func newResource(id uint32, release func(uint32)) resource {
	return resource{id: id, release: release}
}

// ID returns the backend handle, or 0 once released.
func (r *resource) ID() uint32 { return r.id }

// Released reports whether Release has run.
func (r *resource) Released() bool { return r.id == 0 }

// Release frees the handle on the first call and does nothing afterwards.
func (r *resource) Release() {
	if r.id == 0 {
		return
	}
	id := r.id
	r.id = 0
	if r.release != nil {
		r.release(id)
	}
	r.release = nil
}
