package importer

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/nmsimport/internal/scene"
	"github.com/Faultbox/nmsimport/internal/template"
)

type componentHandler func(s *Session, n *scene.Node, c template.Component) error

var componentHandlers map[string]componentHandler

// Filled in init because LOD models recurse back into the scene builder.
func init() {
	componentHandlers = map[string]componentHandler{
		template.ComponentAnimation:     addAnimation,
		template.ComponentLOD:           addLODModels,
		template.ComponentPhysics:       addPhysics,
		template.ComponentTriggerAction: addTriggerAction,
		template.ComponentEmpty:         func(*Session, *scene.Node, template.Component) error { return nil },
	}
}

// processAttachment loads the node's ATTACHMENT template, if any, and dispatches its
// components. Only import-fatal errors are returned.
func (s *Session) processAttachment(n *scene.Node, t *template.SceneNode) error {
	path, _ := t.Attr(template.AttrAttachment)
	if path == "" {
		return nil
	}
	att, err := template.LoadAs[*template.Attachment](s.im.templates, path)
	if err != nil {
		if IsFatal(err) {
			return fmt.Errorf("attachment of %s: %w", n.Name, err)
		}
		s.log.Warn("attachment unavailable", zap.String("node", n.Name), zap.String("path", path), zap.Error(err))
		return nil
	}

	for _, c := range att.Components {
		kind := c.ComponentKind()
		handler, ok := componentHandlers[kind]
		if !ok {
			s.log.Info("skipping attachment component", zap.String("node", n.Name),
				zap.Error(fmt.Errorf("%w: %s", ErrUnsupportedComponent, kind)))
			continue
		}
		if err := handler(s, n, c); err != nil {
			if IsFatal(err) {
				return err
			}
			s.log.Warn("attachment component failed", zap.String("node", n.Name), zap.String("kind", kind), zap.Error(err))
		}
	}
	n.LODDistances = append(n.LODDistances, att.LodDistances...)
	return nil
}

func addAnimation(s *Session, n *scene.Node, c template.Component) error {
	data := c.(*template.AnimationComponent)
	ac := scene.NewAnimComponent(n.Root, s.meshGroup)

	anims := data.Anims
	if data.Idle.Anim != "" {
		anims = append([]template.AnimationData{data.Idle}, anims...)
	}
	var errs error
	for _, a := range anims {
		clip, err := s.BuildAnimationClip(a)
		if err != nil {
			if IsFatal(err) {
				return err
			}
			errs = multierr.Append(errs, err)
			continue
		}
		ac.Add(clip)
	}
	n.AddComponent(ac)
	return errs
}

func addLODModels(s *Session, n *scene.Node, c template.Component) error {
	data := c.(*template.LODComponent)
	lod := &scene.LODModelComponent{}
	for _, path := range data.Models {
		s.log.Debug("importing LOD model", zap.String("node", n.Name), zap.String("path", path))
		sub, err := s.importScoped(path)
		if err != nil {
			return err
		}
		lod.Resources = append(lod.Resources, scene.LODModelResource{FileName: path, Scene: sub})
	}
	n.AddComponent(lod)
	return nil
}

func addPhysics(_ *Session, n *scene.Node, c template.Component) error {
	data := c.(*template.PhysicsComponent).Data
	n.AddComponent(&scene.PhysicsComponent{
		Mass:            data.Mass,
		Friction:        data.Friction,
		RollingFriction: data.RollingFriction,
		Gravity:         data.Gravity,
	})
	return nil
}

func addTriggerAction(_ *Session, n *scene.Node, c template.Component) error {
	data := c.(*template.TriggerActionComponent)
	tc := &scene.TriggerActionComponent{}
	for _, st := range data.States {
		tc.States = append(tc.States, st.ID)
	}
	n.AddComponent(tc)
	return nil
}
