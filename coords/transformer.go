package coords

// Transformer maps points between world and screen space for a camera.
// Implementations are interchangeable: for the same camera state they agree within Epsilon.
type Transformer interface {
	Name() string
	CameraOffset(cam *Camera) Vec2
	WorldToScreen(cam *Camera, p Vec2) Vec2
	ScreenToWorld(cam *Camera, p Vec2) Vec2
	BatchWorldToScreen(cam *Camera, points []Vec2) []Vec2
}

// NaiveTransformer reads the camera on every call
type NaiveTransformer struct{}

// NewNaiveTransformer creates a transformer without any caching
func NewNaiveTransformer() *NaiveTransformer {
	return &NaiveTransformer{}
}

func (t *NaiveTransformer) Name() string { return "naive" }

func (t *NaiveTransformer) CameraOffset(cam *Camera) Vec2 {
	return cam.Offset()
}

func (t *NaiveTransformer) WorldToScreen(cam *Camera, p Vec2) Vec2 {
	return p.Sub(cam.Offset())
}

func (t *NaiveTransformer) ScreenToWorld(cam *Camera, p Vec2) Vec2 {
	return p.Add(cam.Offset())
}

func (t *NaiveTransformer) BatchWorldToScreen(cam *Camera, points []Vec2) []Vec2 {
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i] = t.WorldToScreen(cam, p)
	}
	return out
}

// CacheStats counts offset lookups served from cache versus recomputed
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

// CachedTransformer remembers the offset of the camera version it last saw.
// The cache is owned by the transformer and only refreshed on read.
type CachedTransformer struct {
	cam     *Camera
	version uint64
	offset  Vec2
	valid   bool
	stats   CacheStats
}

// NewCachedTransformer creates a transformer with an empty offset cache
func NewCachedTransformer() *CachedTransformer {
	return &CachedTransformer{}
}

func (t *CachedTransformer) Name() string { return "cached" }

// CameraOffset returns the cached offset, recomputing it when the camera or its version changed
func (t *CachedTransformer) CameraOffset(cam *Camera) Vec2 {
	if t.valid && t.cam == cam && t.version == cam.Version() {
		t.stats.Hits++
		return t.offset
	}
	t.stats.Misses++
	t.cam = cam
	t.version = cam.Version()
	t.offset = cam.Offset()
	t.valid = true
	return t.offset
}

func (t *CachedTransformer) WorldToScreen(cam *Camera, p Vec2) Vec2 {
	return p.Sub(t.CameraOffset(cam))
}

func (t *CachedTransformer) ScreenToWorld(cam *Camera, p Vec2) Vec2 {
	return p.Add(t.CameraOffset(cam))
}

// BatchWorldToScreen applies a single offset lookup to every point
func (t *CachedTransformer) BatchWorldToScreen(cam *Camera, points []Vec2) []Vec2 {
	offset := t.CameraOffset(cam)
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i] = p.Sub(offset)
	}
	return out
}

// Invalidate drops the cached offset
func (t *CachedTransformer) Invalidate() {
	t.valid = false
}

// Stats returns the cache hit and miss counters
func (t *CachedTransformer) Stats() CacheStats {
	return t.stats
}
