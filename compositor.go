package ffmpeg

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// BlendMode defines how a layer is combined with what lies below it.
type BlendMode int32

const (
	BlendModeCopy BlendMode = 0 // Direct copy (ignore alpha)
	BlendModeOver BlendMode = 1 // Alpha blend
	BlendModeAdd  BlendMode = 2 // Additive luma, offset chroma
)

func (m BlendMode) String() string {
	switch m {
	case BlendModeCopy:
		return "copy"
	case BlendModeOver:
		return "over"
	case BlendModeAdd:
		return "add"
	}
	return fmt.Sprintf("BlendMode(%d)", int32(m))
}

// CompositorLayer is one picture placed on the canvas.
type CompositorLayer struct {
	ID        int       // Unique layer ID
	X, Y      int       // Position on canvas, may be partly outside
	Width     int       // Scaled width (0 = input width)
	Height    int       // Scaled height (0 = input height)
	ZOrder    int       // Layer order (higher = on top)
	Alpha     float32   // Layer opacity 0.0-1.0
	Visible   bool      // Layer visibility
	BlendMode BlendMode // How to blend this layer
}

// CompositorConfig configures a Compositor.
type CompositorConfig struct {
	Width      int        // Canvas width
	Height     int        // Canvas height
	Background [3]byte    // Background color (Y, U, V)
	ScaleFlags ScaleFlags // zero means ScaleBilinear
}

// DefaultCompositorConfig returns a 1080p black canvas.
func DefaultCompositorConfig() CompositorConfig {
	return CompositorConfig{
		Width:      1920,
		Height:     1080,
		Background: [3]byte{16, 128, 128}, // Black in YUV
		ScaleFlags: ScaleBilinear,
	}
}

// Compositor lays several pictures out on a YUV420P canvas. Inputs of any
// size and pixel format are scaled to their layer with swscale and blended
// in Go. Layer changes are safe while another goroutine composites.
type Compositor struct {
	config CompositorConfig

	mu     sync.Mutex
	layers []*CompositorLayer
	nextID int

	// Per layer scaling state, rebuilt when the input shape changes.
	scalers map[int]*Scaler
	scaled  map[int]*Frame
}

// NewCompositor creates a compositor. Canvas dimensions are rounded up to
// even values.
func NewCompositor(config CompositorConfig) (*Compositor, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvalidArgument, config.Width, config.Height)
	}
	if config.ScaleFlags == 0 {
		config.ScaleFlags = ScaleBilinear
	}
	config.Width = (config.Width + 1) &^ 1
	config.Height = (config.Height + 1) &^ 1
	return &Compositor{
		config:  config,
		scalers: make(map[int]*Scaler),
		scaled:  make(map[int]*Frame),
	}, nil
}

func (c *Compositor) Config() CompositorConfig { return c.config }

// NewCanvas allocates a frame suitable as Composite destination.
func (c *Compositor) NewCanvas() (*Frame, error) {
	return NewVideoFrame(PixelFormatYUV420P, c.config.Width, c.config.Height)
}

// AddLayer adds a layer at x, y on top of the existing ones and returns its
// ID.
func (c *Compositor) AddLayer(x, y, width, height int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	z := 0
	for _, l := range c.layers {
		z = max(z, l.ZOrder+1)
	}
	c.layers = append(c.layers, &CompositorLayer{
		ID:        c.nextID,
		X:         x,
		Y:         y,
		Width:     width,
		Height:    height,
		ZOrder:    z,
		Alpha:     1.0,
		Visible:   true,
		BlendMode: BlendModeOver,
	})
	return c.nextID
}

// RemoveLayer removes a layer by ID.
func (c *Compositor) RemoveLayer(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, l := range c.layers {
		if l.ID == id {
			c.layers = slices.Delete(c.layers, i, i+1)
			c.dropScaler(id)
			return true
		}
	}
	return false
}

// Layer returns a copy of the layer with the given ID.
func (c *Compositor) Layer(id int) (CompositorLayer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l := c.layer(id); l != nil {
		return *l, true
	}
	return CompositorLayer{}, false
}

// Layers returns copies of all layers, bottom first.
func (c *Compositor) Layers() []CompositorLayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CompositorLayer, 0, len(c.layers))
	for _, l := range c.sorted() {
		out = append(out, *l)
	}
	return out
}

func (c *Compositor) layer(id int) *CompositorLayer {
	for _, l := range c.layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// update applies fn to layer id and reports whether it exists.
func (c *Compositor) update(id int, fn func(l *CompositorLayer)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.layer(id)
	if l == nil {
		return false
	}
	fn(l)
	return true
}

func (c *Compositor) SetLayerPosition(id, x, y int) bool {
	return c.update(id, func(l *CompositorLayer) { l.X, l.Y = x, y })
}

func (c *Compositor) SetLayerSize(id, width, height int) bool {
	return c.update(id, func(l *CompositorLayer) { l.Width, l.Height = width, height })
}

// SetLayerAlpha sets the opacity, clamped to [0, 1].
func (c *Compositor) SetLayerAlpha(id int, alpha float32) bool {
	return c.update(id, func(l *CompositorLayer) { l.Alpha = min(max(alpha, 0), 1) })
}

func (c *Compositor) SetLayerZOrder(id, z int) bool {
	return c.update(id, func(l *CompositorLayer) { l.ZOrder = z })
}

func (c *Compositor) SetLayerVisible(id int, visible bool) bool {
	return c.update(id, func(l *CompositorLayer) { l.Visible = visible })
}

func (c *Compositor) SetLayerBlendMode(id int, mode BlendMode) bool {
	return c.update(id, func(l *CompositorLayer) { l.BlendMode = mode })
}

// sorted returns the layers bottom first; equal z keeps insertion order.
func (c *Compositor) sorted() []*CompositorLayer {
	s := slices.Clone(c.layers)
	slices.SortStableFunc(s, func(a, b *CompositorLayer) int { return cmp.Compare(a.ZOrder, b.ZOrder) })
	return s
}

// Composite clears dst to the background and draws the visible layers that
// have an input in inputs, keyed by layer ID. dst must be a writable
// YUV420P frame of the canvas size, as returned by NewCanvas.
func (c *Compositor) Composite(dst *Frame, inputs map[int]*Frame) error {
	if dst.PixelFormat() != PixelFormatYUV420P || dst.Width() != c.config.Width || dst.Height() != c.config.Height {
		return fmt.Errorf("%w: canvas must be %dx%d yuv420p, got %dx%d %s", ErrInvalidArgument,
			c.config.Width, c.config.Height, dst.Width(), dst.Height(), dst.PixelFormat())
	}
	if err := dst.MakeWritable(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	canvas := planesOf(dst)
	for i, p := range canvas {
		fill(p, c.config.Background[i])
	}
	for _, l := range c.sorted() {
		src := inputs[l.ID]
		if !l.Visible || l.Alpha <= 0 || src == nil {
			continue
		}
		pic, err := c.scale(l, src)
		if err != nil {
			return fmt.Errorf("layer %d: %w", l.ID, err)
		}
		alpha := int(l.Alpha*255 + 0.5)
		for i, p := range planesOf(pic) {
			x, y := l.X, l.Y
			if i > 0 {
				x, y = floorHalf(x), floorHalf(y)
			}
			blendPlane(canvas[i], p, x, y, alpha, l.BlendMode, i > 0)
		}
	}
	return nil
}

// scale returns src at the layer size in YUV420P.
func (c *Compositor) scale(l *CompositorLayer, src *Frame) (*Frame, error) {
	w, h := l.Width, l.Height
	if w <= 0 || h <= 0 {
		w, h = src.Width(), src.Height()
	}
	if w == src.Width() && h == src.Height() && src.PixelFormat() == PixelFormatYUV420P {
		return src, nil
	}
	want := ScalerConfig{
		SrcWidth: src.Width(), SrcHeight: src.Height(), SrcFormat: src.PixelFormat(),
		DstWidth: w, DstHeight: h, DstFormat: PixelFormatYUV420P,
		Flags: c.config.ScaleFlags,
	}
	s := c.scalers[l.ID]
	if s == nil || s.Config() != want {
		c.dropScaler(l.ID)
		var err error
		if s, err = NewScaler(want); err != nil {
			return nil, err
		}
		c.scalers[l.ID] = s
		f, err := NewFrame()
		if err != nil {
			return nil, err
		}
		c.scaled[l.ID] = f
	}
	out := c.scaled[l.ID]
	out.Unref()
	if err := s.Scale(out, src); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Compositor) dropScaler(id int) {
	c.scalers[id].Free()
	c.scaled[id].Free()
	delete(c.scalers, id)
	delete(c.scaled, id)
}

// Free releases the scaling state. The compositor stays usable.
func (c *Compositor) Free() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.scalers {
		c.dropScaler(id)
	}
}

// plane is a view of one picture plane.
type plane struct {
	data   []byte
	stride int
	w, h   int
}

// planesOf returns the three planes of a YUV420P frame.
func planesOf(f *Frame) [3]plane {
	w, h := f.Width(), f.Height()
	cw, ch := (w+1)/2, (h+1)/2
	return [3]plane{
		{f.Data(0), f.Stride(0), w, h},
		{f.Data(1), f.Stride(1), cw, ch},
		{f.Data(2), f.Stride(2), cw, ch},
	}
}

func fill(p plane, v byte) {
	for y := 0; y < p.h; y++ {
		row := p.data[y*p.stride : y*p.stride+p.w]
		for x := range row {
			row[x] = v
		}
	}
}

func floorHalf(v int) int {
	if v < 0 {
		return (v - 1) / 2
	}
	return v / 2
}

// blendPlane draws src onto dst at x, y, clipped to dst. alpha is 0-255.
func blendPlane(dst, src plane, x, y, alpha int, mode BlendMode, chroma bool) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+src.w, dst.w), min(y+src.h, dst.h)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	if mode == BlendModeCopy || (mode == BlendModeOver && alpha >= 255) {
		for dy := y0; dy < y1; dy++ {
			s := src.data[(dy-y)*src.stride+(x0-x):]
			copy(dst.data[dy*dst.stride+x0:dy*dst.stride+x1], s[:x1-x0])
		}
		return
	}
	for dy := y0; dy < y1; dy++ {
		d := dst.data[dy*dst.stride+x0 : dy*dst.stride+x1]
		s := src.data[(dy-y)*src.stride+(x0-x):]
		for i := range d {
			dv, sv := int(d[i]), int(s[i])
			switch mode {
			case BlendModeAdd:
				if chroma {
					dv += (sv - 128) * alpha / 255
				} else {
					dv += sv * alpha / 255
				}
			default:
				dv = (sv*alpha + dv*(255-alpha) + 127) / 255
			}
			d[i] = byte(min(max(dv, 0), 255))
		}
	}
}

// LayoutPiP adds a full canvas main layer and a pipWidth x pipHeight layer
// in a corner ("top-left", "top-right", "bottom-left", "bottom-right"; the
// default), margin pixels from the edges.
func (c *Compositor) LayoutPiP(pipWidth, pipHeight int, position string, margin int) (mainID, pipID int) {
	mainID = c.AddLayer(0, 0, c.config.Width, c.config.Height)

	x := c.config.Width - pipWidth - margin
	y := c.config.Height - pipHeight - margin
	switch position {
	case "top-left":
		x, y = margin, margin
	case "top-right":
		y = margin
	case "bottom-left":
		x = margin
	}
	pipID = c.AddLayer(x, y, pipWidth, pipHeight)
	return mainID, pipID
}

// LayoutSideBySide adds two layers splitting the canvas vertically with gap
// pixels between them.
func (c *Compositor) LayoutSideBySide(gap int) (leftID, rightID int) {
	half := (c.config.Width - gap) / 2
	leftID = c.AddLayer(0, 0, half, c.config.Height)
	rightID = c.AddLayer(half+gap, 0, half, c.config.Height)
	return leftID, rightID
}

// LayoutGrid adds n layers in a grid of cols columns.
func (c *Compositor) LayoutGrid(n, cols, gap int) []int {
	if n <= 0 {
		return nil
	}
	if cols <= 0 {
		cols = 2
	}
	rows := (n + cols - 1) / cols
	cellW := (c.config.Width - gap*(cols-1)) / cols
	cellH := (c.config.Height - gap*(rows-1)) / rows

	ids := make([]int, n)
	for i := range ids {
		col, row := i%cols, i/cols
		ids[i] = c.AddLayer(col*(cellW+gap), row*(cellH+gap), cellW, cellH)
	}
	return ids
}
