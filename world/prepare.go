package world

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/keelphysics/keel/rigidbody"
	"github.com/keelphysics/keel/spatialmath"
	"github.com/keelphysics/keel/utils"
)

// PrepareConfig controls which direction InitTransforms synchronizes newly
// created rigid bodies. Both switches may be enabled; transform-to-position
// then takes precedence and position-to-transform is skipped.
type PrepareConfig struct {
	// PositionToTransform initializes the scene transform from Position
	// and Rotation.
	PositionToTransform bool
	// TransformToPosition initializes Position and Rotation from the
	// scene transform.
	TransformToPosition bool
}

// DefaultPrepareConfig enables both directions, matching the common case of
// authoring either representation.
func DefaultPrepareConfig() PrepareConfig {
	return PrepareConfig{PositionToTransform: true, TransformToPosition: true}
}

// Hook is an extension point run during the First phase of a step.
type Hook func(ctx context.Context, store *Store) error

// Pipeline runs the four preparation phases, in order, once per simulation
// step:
//
//  1. First: registered extension hooks.
//  2. PropagateTransforms: resolve absolute scene transforms, parents before
//     children. Runs only if a rigid body was created this step.
//  3. InitTransforms: one-shot synchronization between scene transforms and
//     Position/Rotation for each newly created body, per PrepareConfig. Only
//     authored source state is synchronized; defaults never overwrite the
//     other representation.
//  4. Finalize: clamp restitution coefficients authored this step into [0,1].
//
// Phases execute strictly sequentially; the per-entity work inside a phase is
// data-parallel.
type Pipeline struct {
	store      *Store
	config     PrepareConfig
	logger     golog.Logger
	firstHooks []Hook
}

// NewPipeline returns a pipeline over the given store. A nil logger falls
// back to the global one.
func NewPipeline(store *Store, config PrepareConfig, logger golog.Logger) (*Pipeline, error) {
	if store == nil {
		return nil, errors.New("store required")
	}
	if logger == nil {
		logger = golog.Global()
	}
	return &Pipeline{store: store, config: config, logger: logger}, nil
}

// OnFirst registers a hook to run during the First phase, in registration
// order.
func (p *Pipeline) OnFirst(hook Hook) {
	p.firstHooks = append(p.firstHooks, hook)
}

// Step runs one preparation pass. Per-step bookkeeping (added entities,
// authored restitution) is cleared on return, even on error.
func (p *Pipeline) Step(ctx context.Context) error {
	defer p.store.clearStepState()

	for _, hook := range p.firstHooks {
		if err := hook(ctx, p.store); err != nil {
			return errors.Wrap(err, "first phase")
		}
	}

	if added := p.store.AddedThisStep(); len(added) > 0 {
		p.store.resolveTransforms()
		if err := p.initTransforms(ctx, added); err != nil {
			return errors.Wrap(err, "init transforms phase")
		}
	}

	if err := p.finalize(ctx); err != nil {
		return errors.Wrap(err, "finalize phase")
	}
	return nil
}

// initTransforms synchronizes each newly created body per the configured
// switches and establishes the PreviousRotation baseline. A direction only
// runs for an entity whose source representation was actually authored:
// authored state in one representation is never overwritten by the default
// of the other.
func (p *Pipeline) initTransforms(ctx context.Context, added []Entity) error {
	if !p.config.PositionToTransform && !p.config.TransformToPosition {
		return nil
	}

	// Materialize transform slots serially so the parallel pass below only
	// ever writes through each entity's own references. Entities that
	// already carry an authored transform but no authored pose are kept
	// out of the write pass.
	skip := map[int]struct{}{}
	if p.config.PositionToTransform && !p.config.TransformToPosition {
		for _, e := range added {
			body, ok := p.store.Body(e)
			if !ok {
				continue
			}
			if _, ok := p.store.Transform(e); !ok {
				p.store.SetTransform(e, spatialmath.NewZeroTransform(body.Rotation))
			} else if !poseAuthored(body) {
				skip[e.id] = struct{}{}
			}
		}
	}

	p.logger.Debugw("initializing transforms", "bodies", len(added))
	return forEachEntityParallel(ctx, added, func(e Entity) error {
		return p.initTransformsEntity(e, skip)
	})
}

func (p *Pipeline) initTransformsEntity(e Entity, skip map[int]struct{}) error {
	body, ok := p.store.Body(e)
	if !ok {
		return nil
	}

	parent, hasParent := p.store.Parent(e)
	var parentTF spatialmath.Transform
	hasParentTF := false
	if hasParent {
		parentTF, hasParentTF = p.store.GlobalTransform(parent)
	}

	switch {
	case p.config.TransformToPosition:
		local, hasLocal := p.store.Transform(e)
		if hasLocal {
			if hasParent && hasParentTF {
				body.Position = parentTF.TransformPoint(local.Translation)
				body.Rotation = parentTF.Rotation.Mul(local.Rotation)
			} else {
				body.Position = local.Translation
				body.Rotation = local.Rotation
			}
		}

	case p.config.PositionToTransform:
		if _, skipped := skip[e.id]; skipped {
			break
		}
		tf, ok := p.store.locals.get(e.id)
		if !ok {
			return nil
		}
		if hasParent && hasParentTF {
			// Express the absolute Position/Rotation in the parent's
			// frame.
			inv := parentTF.Rotation.Inverse()
			tf.Translation = inv.RotatePoint(body.Position.Sub(parentTF.Translation))
			tf.Rotation = inv.Mul(body.Rotation)
		} else {
			tf.Translation = body.Position
			tf.Rotation = body.Rotation
		}
	}

	if body.PreviousRotation != nil {
		body.PreviousRotation = body.Rotation
	}
	return nil
}

// poseAuthored reports whether the body's Position or Rotation differ from
// their spawn defaults.
func poseAuthored(body *rigidbody.Body) bool {
	if body.Position != (r3.Vector{}) {
		return true
	}
	if body.Rotation == nil {
		return false
	}
	return !body.Rotation.ApproxEqual(spatialmath.ZeroRotationLike(body.Rotation), 1e-12)
}

// finalize clamps every restitution coefficient authored this step into
// [0,1]. Idempotent and order-independent across entities.
func (p *Pipeline) finalize(ctx context.Context) error {
	changed := p.store.restitutionChanged()
	if len(changed) == 0 {
		return nil
	}
	return forEachEntityParallel(ctx, changed, func(e Entity) error {
		body, ok := p.store.Body(e)
		if !ok {
			return nil
		}
		body.Restitution = utils.Clamp(body.Restitution, 0, 1)
		return nil
	})
}
