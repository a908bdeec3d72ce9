// Package world provides the entity-indexed component store and the
// once-per-step preparation pipeline that keeps hierarchical scene transforms
// and solver-facing rigid body state mutually consistent.
package world

import (
	"github.com/keelphysics/keel/rigidbody"
	"github.com/keelphysics/keel/spatialmath"
)

// Entity identifies a rigid body in a Store. Ids are generational: a
// despawned id is reused with a bumped generation, so stale handles never
// alias a new entity.
type Entity struct {
	id  int
	gen int
}

// ID returns the raw arena index of the entity.
func (e Entity) ID() int {
	return e.id
}

// column is a sparse-set storage of one component type, keyed by entity id.
type column[T any] struct {
	denseEntities []int
	denseValues   []T
	sparse        []int
}

func (c *column[T]) has(id int) bool {
	if id <= 0 || id-1 >= len(c.sparse) {
		return false
	}
	idx := c.sparse[id-1]
	return idx >= 0 && idx < len(c.denseEntities) && c.denseEntities[idx] == id
}

// get returns a reference into the column, valid until the next structural
// change (set or remove) on the column.
func (c *column[T]) get(id int) (*T, bool) {
	if !c.has(id) {
		return nil, false
	}
	return &c.denseValues[c.sparse[id-1]], true
}

func (c *column[T]) set(id int, v T) {
	if id <= 0 {
		return
	}
	for id-1 >= len(c.sparse) {
		c.sparse = append(c.sparse, -1)
	}
	if c.has(id) {
		c.denseValues[c.sparse[id-1]] = v
		return
	}
	c.denseEntities = append(c.denseEntities, id)
	c.denseValues = append(c.denseValues, v)
	c.sparse[id-1] = len(c.denseEntities) - 1
}

func (c *column[T]) remove(id int) {
	if !c.has(id) {
		return
	}
	idx := c.sparse[id-1]
	last := len(c.denseEntities) - 1
	lastID := c.denseEntities[last]

	c.denseEntities[idx] = c.denseEntities[last]
	c.denseValues[idx] = c.denseValues[last]
	c.sparse[lastID-1] = idx

	c.denseEntities = c.denseEntities[:last]
	var zero T
	c.denseValues[last] = zero
	c.denseValues = c.denseValues[:last]
	c.sparse[id-1] = -1
}

// entityAllocator hands out generational ids, reusing freed slots.
type entityAllocator struct {
	nextID int
	gen    []int
	free   []int
}

func (a *entityAllocator) create() Entity {
	var id int
	if len(a.free) > 0 {
		id = a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
	} else {
		a.nextID++
		id = a.nextID
		a.gen = append(a.gen, 0)
	}
	return Entity{id: id, gen: a.gen[id-1]}
}

func (a *entityAllocator) destroy(e Entity) {
	if !a.isAlive(e) {
		return
	}
	a.gen[e.id-1]++
	a.free = append(a.free, e.id)
}

func (a *entityAllocator) isAlive(e Entity) bool {
	if e.id <= 0 || e.id > len(a.gen) {
		return false
	}
	return a.gen[e.id-1] == e.gen
}

// Store is an entity-indexed arena of rigid body state: a dense column of
// body records, optional scene transforms, and weak parent links by
// identifier. Each entity's fields are exclusively owned during its own
// computation; the store itself performs no locking.
type Store struct {
	alloc   entityAllocator
	bodies  column[*rigidbody.Body]
	locals  column[spatialmath.Transform]
	parents column[Entity]

	// per-step bookkeeping consumed by the prepare pipeline
	added    []Entity
	dirty    map[Entity]struct{}
	resolved map[int]spatialmath.Transform
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{dirty: map[Entity]struct{}{}}
}

// Spawn adds a body record and returns its entity. The body pointer must be
// non-nil and is owned by the store from here on. The new entity is recorded
// as added for the current step, and its authored restitution as changed.
func (s *Store) Spawn(body *rigidbody.Body) Entity {
	e := s.alloc.create()
	s.bodies.set(e.id, body)
	s.added = append(s.added, e)
	s.dirty[e] = struct{}{}
	return e
}

// SpawnChild adds a body record parented to another entity. The parent is a
// weak reference: despawning it later leaves the child in place with a
// dangling link that simply stops resolving.
func (s *Store) SpawnChild(body *rigidbody.Body, parent Entity) Entity {
	e := s.Spawn(body)
	s.parents.set(e.id, parent)
	return e
}

// Despawn removes an entity and all of its components.
func (s *Store) Despawn(e Entity) {
	if !s.alloc.isAlive(e) {
		return
	}
	s.bodies.remove(e.id)
	s.locals.remove(e.id)
	s.parents.remove(e.id)
	delete(s.dirty, e)
	s.alloc.destroy(e)
}

// Contains reports whether the entity is alive in this store.
func (s *Store) Contains(e Entity) bool {
	return s.alloc.isAlive(e)
}

// Body returns the entity's body record.
func (s *Store) Body(e Entity) (*rigidbody.Body, bool) {
	if !s.alloc.isAlive(e) {
		return nil, false
	}
	body, ok := s.bodies.get(e.id)
	if !ok {
		return nil, false
	}
	return *body, true
}

// Transform returns the entity's authored local scene transform, if any.
func (s *Store) Transform(e Entity) (spatialmath.Transform, bool) {
	if !s.alloc.isAlive(e) {
		return spatialmath.Transform{}, false
	}
	tf, ok := s.locals.get(e.id)
	if !ok {
		return spatialmath.Transform{}, false
	}
	return *tf, true
}

// SetTransform authors the entity's local scene transform.
func (s *Store) SetTransform(e Entity, tf spatialmath.Transform) {
	if !s.alloc.isAlive(e) {
		return
	}
	s.locals.set(e.id, tf)
}

// Parent returns the entity's parent link, if any.
func (s *Store) Parent(e Entity) (Entity, bool) {
	if !s.alloc.isAlive(e) {
		return Entity{}, false
	}
	parent, ok := s.parents.get(e.id)
	if !ok {
		return Entity{}, false
	}
	return *parent, true
}

// SetParent links the entity to a parent frame by identifier.
func (s *Store) SetParent(e, parent Entity) {
	if !s.alloc.isAlive(e) {
		return
	}
	s.parents.set(e.id, parent)
}

// SetRestitution authors the body's restitution coefficient and records the
// change for the finalizer to clamp at the end of the step.
func (s *Store) SetRestitution(e Entity, coefficient float64) {
	body, ok := s.Body(e)
	if !ok {
		return
	}
	body.Restitution = coefficient
	s.dirty[e] = struct{}{}
}

// Entities returns every live entity, in spawn order for fresh ids.
func (s *Store) Entities() []Entity {
	out := make([]Entity, 0, len(s.bodies.denseEntities))
	for _, id := range s.bodies.denseEntities {
		out = append(out, Entity{id: id, gen: s.alloc.gen[id-1]})
	}
	return out
}

// AddedThisStep returns the entities spawned since the last pipeline step.
func (s *Store) AddedThisStep() []Entity {
	return s.added
}

// GlobalTransform returns the entity's absolute scene transform: its local
// transform composed onto every ancestor's. Entities without a local
// transform inherit their parent's global transform unchanged; an entity
// with neither parent nor local transform has no global transform.
func (s *Store) GlobalTransform(e Entity) (spatialmath.Transform, bool) {
	if s.resolved != nil {
		if tf, ok := s.resolved[e.id]; ok {
			return tf, true
		}
		return spatialmath.Transform{}, false
	}
	return s.computeGlobal(e, nil, map[int]struct{}{})
}

// computeGlobal resolves an entity's global transform, memoizing successes
// into memo (when non-nil) so shared ancestor chains are walked once.
func (s *Store) computeGlobal(e Entity, memo map[int]spatialmath.Transform, visiting map[int]struct{}) (spatialmath.Transform, bool) {
	if tf, ok := memo[e.id]; ok {
		return tf, true
	}
	if !s.alloc.isAlive(e) {
		return spatialmath.Transform{}, false
	}
	if _, cyclic := visiting[e.id]; cyclic {
		return spatialmath.Transform{}, false
	}
	visiting[e.id] = struct{}{}

	tf, ok := s.composeGlobal(e, memo, visiting)
	if ok && memo != nil {
		memo[e.id] = tf
	}
	return tf, ok
}

func (s *Store) composeGlobal(e Entity, memo map[int]spatialmath.Transform, visiting map[int]struct{}) (spatialmath.Transform, bool) {
	local, hasLocal := s.Transform(e)
	parent, hasParent := s.Parent(e)
	if !hasParent {
		return local, hasLocal
	}
	parentTF, ok := s.computeGlobal(parent, memo, visiting)
	if !ok {
		return local, hasLocal
	}
	if !hasLocal {
		return parentTF, true
	}
	return parentTF.Mul(local), true
}

// resolveTransforms caches every entity's global transform for the step,
// resolving parents before children.
func (s *Store) resolveTransforms() {
	s.resolved = nil
	resolved := make(map[int]spatialmath.Transform, len(s.locals.denseEntities))
	for _, e := range s.Entities() {
		s.computeGlobal(e, resolved, map[int]struct{}{})
	}
	s.resolved = resolved
}

// restitutionChanged returns the entities whose restitution was authored
// since the last step.
func (s *Store) restitutionChanged() []Entity {
	out := make([]Entity, 0, len(s.dirty))
	for e := range s.dirty {
		out = append(out, e)
	}
	return out
}

// clearStepState resets the per-step bookkeeping after a pipeline step.
func (s *Store) clearStepState() {
	s.added = s.added[:0]
	s.dirty = map[Entity]struct{}{}
	s.resolved = nil
}
