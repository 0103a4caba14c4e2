package coords

import "errors"

// Manager exposes coordinate transforms to systems and the render collaborator.
// It is constructed by the simulation root and passed to whoever needs it.
type Manager struct {
	camera      *Camera
	transformer Transformer
}

// NewManager creates a manager over cam. A nil transformer selects the cached one.
func NewManager(cam *Camera, transformer Transformer) (*Manager, error) {
	if cam == nil {
		return nil, errors.New("coordinate manager: nil camera")
	}
	if transformer == nil {
		transformer = NewCachedTransformer()
	}
	return &Manager{camera: cam, transformer: transformer}, nil
}

// Camera returns the managed camera
func (m *Manager) Camera() *Camera {
	return m.camera
}

// Transformer returns the active implementation
func (m *Manager) Transformer() Transformer {
	return m.transformer
}

// SetTransformer swaps the active implementation; nil is ignored
func (m *Manager) SetTransformer(t Transformer) {
	if t == nil {
		return
	}
	m.transformer = t
}

// CameraOffset returns the offset as seen by the active transformer
func (m *Manager) CameraOffset() Vec2 {
	return m.transformer.CameraOffset(m.camera)
}

// WorldToScreen converts a world position to screen coordinates
func (m *Manager) WorldToScreen(p Vec2) Vec2 {
	return m.transformer.WorldToScreen(m.camera, p)
}

// ScreenToWorld converts a screen position to world coordinates
func (m *Manager) ScreenToWorld(p Vec2) Vec2 {
	return m.transformer.ScreenToWorld(m.camera, p)
}

// BatchWorldToScreen converts many world positions with one camera lookup
func (m *Manager) BatchWorldToScreen(points []Vec2) []Vec2 {
	return m.transformer.BatchWorldToScreen(m.camera, points)
}

// VisibleWorldRect returns the world-space rectangle covered by the viewport
func (m *Manager) VisibleWorldRect() Bounds {
	topLeft := m.ScreenToWorld(Vec2{})
	return Bounds{Min: topLeft, Max: topLeft.Add(m.camera.Viewport())}
}

// IsVisible checks if a world position is on screen, allowing margin world units outside
func (m *Manager) IsVisible(p Vec2, margin float64) bool {
	return m.VisibleWorldRect().Expand(margin).Contains(p)
}
