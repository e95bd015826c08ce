package aspen

import "time"

// Batch is an ordered, non-owning draw list. Members are drawn in ascending
// depth; members with equal depth keep the order in which they were added.
//
// A Batch stores ObjectIDs, not renderables: members are resolved through the
// Context arena on every pass, so a disposed renderable simply stops being
// drawn. Depth changes and membership changes mark the batch dirty, and the
// draw order is rebuilt lazily at the start of the next Render.
//
// Add and Remove called while the batch is updating or rendering are queued
// and applied when the pass ends.
type Batch struct {
	ctx   *Context
	id    BatchID
	owner ObjectID // viewport that renders this batch, 0 otherwise

	members []ObjectID   // insertion order
	sorted  []batchEntry // draw order, rebuilt when dirty
	dirty   bool

	busy    int
	pending []pendingOp

	disposed bool
}

type batchEntry struct {
	id    ObjectID
	depth int
}

type pendingOp struct {
	id  ObjectID
	add bool
}

// ID returns the batch's arena ID.
func (b *Batch) ID() BatchID { return b.id }

// Owner returns the viewport that renders this batch, or 0 for the screen
// batch and batches created with Context.NewBatch.
func (b *Batch) Owner() ObjectID { return b.owner }

// Len returns the number of members.
func (b *Batch) Len() int { return len(b.members) }

// Dirty reports whether the draw order will be rebuilt on the next Render.
func (b *Batch) Dirty() bool { return b.dirty }

// Disposed reports whether Dispose has run.
func (b *Batch) Disposed() bool { return b.disposed }

// Contains reports whether r is a member. Queued additions are not counted
// until the current pass ends.
func (b *Batch) Contains(r Renderable) bool {
	if r == nil {
		return false
	}
	return b.indexOf(r.ID()) >= 0
}

// Add appends r. If r already belongs to another batch it is removed from
// that batch first; adding a renderable to the batch it is already in does
// nothing. Adding a Viewport to a batch that the viewport itself renders,
// directly or through nested viewports, returns ErrInvalidHierarchy.
// Panics if r is nil.
func (b *Batch) Add(r Renderable) error {
	if r == nil {
		panic("aspen: cannot add nil renderable")
	}
	if b.disposed {
		return disposedError("batch")
	}
	if r.Disposed() {
		return disposedError(r.Kind().String())
	}
	core := r.core()
	if core.ctx != b.ctx {
		return invalidArgument("renderable %d belongs to another context", r.ID())
	}
	if v, ok := r.(*Viewport); ok && b.renderedBy(v.ID()) {
		return invalidHierarchy("viewport %d would contain itself", v.ID())
	}
	if core.batch == b.id {
		return nil
	}
	if old := core.Batch(); old != nil {
		old.Remove(r)
	}
	core.batch = b.id
	if b.busy > 0 {
		b.pending = append(b.pending, pendingOp{id: r.ID(), add: true})
		return nil
	}
	b.attach(r.ID())
	return nil
}

// Remove detaches the first occurrence of r and marks the batch dirty.
// Removing a renderable that is not a member only marks the batch dirty.
func (b *Batch) Remove(r Renderable) {
	if r == nil {
		return
	}
	core := r.core()
	if core.batch == b.id {
		core.batch = 0
	}
	if b.busy > 0 {
		b.pending = append(b.pending, pendingOp{id: r.ID()})
		return
	}
	b.detach(r.ID())
}

// Invalidate forces the draw order to be rebuilt on the next Render.
func (b *Batch) Invalidate() {
	b.dirty = true
}

// Update calls Update on every member in insertion order.
func (b *Batch) Update(dt float64) {
	if b.disposed {
		return
	}
	b.busy++
	defer b.endPass()
	for _, id := range b.members {
		if r, ok := b.member(id); ok {
			r.Update(b.ctx, dt)
		}
	}
}

// Render rebuilds the draw order if dirty and renders every member in
// ascending depth. The pass stops at the first member that returns an error.
func (b *Batch) Render(alpha float64) error {
	if b.disposed {
		return disposedError("batch")
	}
	if b.dirty {
		b.resort()
	}
	b.busy++
	defer b.endPass()
	for _, e := range b.sorted {
		r, ok := b.member(e.id)
		if !ok {
			continue
		}
		if err := r.Render(b.ctx, alpha); err != nil {
			return err
		}
	}
	return nil
}

// Each calls fn for every member in draw order until fn returns false.
func (b *Batch) Each(fn func(Renderable) bool) {
	if b.dirty && b.busy == 0 {
		b.resort()
	}
	for _, e := range b.sorted {
		r, ok := b.member(e.id)
		if !ok {
			continue
		}
		if !fn(r) {
			return
		}
	}
}

// Dispose detaches every member without disposing it and drops the batch
// from the arena. Calling it again is a no-op.
func (b *Batch) Dispose() {
	if b.disposed {
		return
	}
	for _, id := range b.members {
		if r, ok := b.ctx.objects[id]; ok && r.core().batch == b.id {
			r.core().batch = 0
		}
	}
	b.members = nil
	b.sorted = nil
	b.pending = nil
	b.disposed = true
	delete(b.ctx.batches, b.id)
}

// attachTarget makes *Batch usable as a constructor parent.
func (b *Batch) attachTarget(ctx *Context, _ Kind) (*Batch, error) {
	if b == nil {
		return nil, invalidArgument("nil batch parent")
	}
	if b.ctx != ctx {
		return nil, invalidArgument("batch %d belongs to another context", b.id)
	}
	if b.disposed {
		return nil, disposedError("batch")
	}
	return b, nil
}

// member resolves id through the arena and drops entries that were moved to
// another batch during the current pass.
func (b *Batch) member(id ObjectID) (Renderable, bool) {
	r, ok := b.ctx.objects[id]
	if !ok || r.core().batch != b.id {
		return nil, false
	}
	return r, true
}

func (b *Batch) indexOf(id ObjectID) int {
	for i, m := range b.members {
		if m == id {
			return i
		}
	}
	return -1
}

func (b *Batch) attach(id ObjectID) {
	if b.indexOf(id) >= 0 {
		return
	}
	b.members = append(b.members, id)
	b.dirty = true
	if b.ctx.debug {
		debugCheckBatchLen(b)
		debugCheckNesting(b)
	}
}

func (b *Batch) detach(id ObjectID) {
	b.dirty = true
	i := b.indexOf(id)
	if i < 0 {
		return
	}
	copy(b.members[i:], b.members[i+1:])
	b.members[len(b.members)-1] = 0
	b.members = b.members[:len(b.members)-1]
}

func (b *Batch) endPass() {
	b.busy--
	if b.busy > 0 || len(b.pending) == 0 {
		return
	}
	ops := b.pending
	b.pending = nil
	for _, op := range ops {
		if !op.add {
			b.detach(op.id)
			continue
		}
		// Skip additions undone or redirected later in the same pass.
		if r, ok := b.ctx.objects[op.id]; ok && r.core().batch == b.id {
			b.attach(op.id)
		}
	}
}

// resort rebuilds the depth order from the insertion order. The insertion
// sort keeps equal depths in insertion order.
func (b *Batch) resort() {
	var start time.Time
	if b.ctx.debug {
		start = time.Now()
	}
	b.sorted = b.sorted[:0]
	for _, id := range b.members {
		if r, ok := b.ctx.objects[id]; ok {
			b.sorted = append(b.sorted, batchEntry{id: id, depth: r.Depth()})
		}
	}
	for i := 1; i < len(b.sorted); i++ {
		key := b.sorted[i]
		j := i - 1
		for j >= 0 && b.sorted[j].depth > key.depth {
			b.sorted[j+1] = b.sorted[j]
			j--
		}
		b.sorted[j+1] = key
	}
	b.dirty = false
	if b.ctx.debug {
		b.ctx.stats.sortTime += time.Since(start)
		b.ctx.stats.resorts++
	}
}

// enclosing returns the batch that holds this batch's owning viewport.
func (b *Batch) enclosing() *Batch {
	if b.owner == 0 {
		return nil
	}
	r, ok := b.ctx.objects[b.owner]
	if !ok {
		return nil
	}
	return r.core().Batch()
}

// renderedBy reports whether viewport id renders b, directly or through
// nested viewports.
func (b *Batch) renderedBy(id ObjectID) bool {
	for cur := b; cur != nil; cur = cur.enclosing() {
		if cur.owner == id {
			return true
		}
	}
	return false
}
