package mapview

import (
	"context"
	"fmt"
	"slices"

	"github.com/paulmach/orb"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

var (
	_ Surface = (*Scene)(nil)
	_ Marker  = (*SceneMarker)(nil)
)

// Scene is the server-held surface. It keeps the markers and the open popup
// that the browser renderer mirrors.
type Scene struct {
	opts     MapOptions
	markers  []*SceneMarker
	popup    *models.Popup
	released bool
}

// NewSceneFactory returns a factory producing scenes. When prober is not nil
// the tile source is checked before the scene is handed out.
func NewSceneFactory(prober TileProber) SurfaceFactory {
	return func(ctx context.Context, opts MapOptions) (Surface, error) {
		if err := opts.Validate(); err != nil {
			return nil, err
		}
		if prober != nil {
			if err := prober.Probe(ctx, opts); err != nil {
				return nil, fmt.Errorf("tile source unavailable: %w", err)
			}
		}
		return &Scene{opts: opts}, nil
	}
}

func (s *Scene) Options() MapOptions { return s.opts }

func (s *Scene) AddMarker(opts MarkerOptions) Marker {
	m := &SceneMarker{opts: opts, scene: s}
	if s.released {
		m.removed = true
		return m
	}
	s.markers = append(s.markers, m)
	return m
}

// Markers returns the markers currently on the scene, in insertion order.
func (s *Scene) Markers() []*SceneMarker {
	return slices.Clone(s.markers)
}

func (s *Scene) OpenPopup(popup models.Popup) {
	if s.released {
		return
	}
	s.popup = &popup
}

func (s *Scene) ClosePopup() { s.popup = nil }

func (s *Scene) CurrentPopup() (models.Popup, bool) {
	if s.popup == nil {
		return models.Popup{}, false
	}
	return *s.popup, true
}

func (s *Scene) Release() {
	for _, m := range slices.Clone(s.markers) {
		m.Remove()
	}
	s.popup = nil
	s.released = true
}

func (s *Scene) Released() bool { return s.released }

func (s *Scene) detach(m *SceneMarker) {
	s.markers = slices.DeleteFunc(s.markers, func(other *SceneMarker) bool { return other == m })
	if s.popup != nil && s.popup.POIID == m.opts.POIID {
		s.popup = nil
	}
}

// SceneMarker is a marker placed on a Scene.
type SceneMarker struct {
	opts        MarkerOptions
	scene       *Scene
	highlighted bool
	removed     bool
	onClick     []func()
	onHover     []func(bool)
}

func (m *SceneMarker) POIID() string               { return m.opts.POIID }
func (m *SceneMarker) Title() string               { return m.opts.Title }
func (m *SceneMarker) LngLat() orb.Point           { return m.opts.LngLat }
func (m *SceneMarker) Style() models.CategoryStyle { return m.opts.Style }
func (m *SceneMarker) Highlighted() bool           { return m.highlighted }
func (m *SceneMarker) Removed() bool               { return m.removed }

func (m *SceneMarker) SetHighlighted(on bool) { m.highlighted = on }

func (m *SceneMarker) OnClick(handler func()) {
	if m.removed {
		return
	}
	m.onClick = append(m.onClick, handler)
}

func (m *SceneMarker) OnHover(handler func(over bool)) {
	if m.removed {
		return
	}
	m.onHover = append(m.onHover, handler)
}

func (m *SceneMarker) EmitClick() {
	for _, h := range m.onClick {
		h()
	}
}

func (m *SceneMarker) EmitHover(over bool) {
	for _, h := range m.onHover {
		h(over)
	}
}

func (m *SceneMarker) Remove() {
	if m.removed {
		return
	}
	m.removed = true
	m.onClick = nil
	m.onHover = nil
	m.highlighted = false
	m.scene.detach(m)
}
