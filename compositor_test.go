package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositorLayers(t *testing.T) {
	_, err := NewCompositor(CompositorConfig{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	c, err := NewCompositor(CompositorConfig{Width: 639, Height: 479})
	require.NoError(t, err)
	assert.Equal(t, 640, c.Config().Width)
	assert.Equal(t, 480, c.Config().Height)

	a := c.AddLayer(0, 0, 0, 0)
	b := c.AddLayer(10, 20, 100, 50)
	assert.NotEqual(t, a, b)

	lb, ok := c.Layer(b)
	require.True(t, ok)
	assert.Equal(t, CompositorLayer{ID: b, X: 10, Y: 20, Width: 100, Height: 50, ZOrder: 1, Alpha: 1, Visible: true, BlendMode: BlendModeOver}, lb)

	assert.True(t, c.SetLayerAlpha(b, 3))
	lb, _ = c.Layer(b)
	assert.Equal(t, float32(1), lb.Alpha)
	assert.True(t, c.SetLayerAlpha(b, -1))
	lb, _ = c.Layer(b)
	assert.Equal(t, float32(0), lb.Alpha)

	// Raising a above b reorders the stack; equal z keeps insertion order.
	assert.True(t, c.SetLayerZOrder(a, 5))
	layers := c.Layers()
	require.Len(t, layers, 2)
	assert.Equal(t, []int{b, a}, []int{layers[0].ID, layers[1].ID})

	assert.False(t, c.SetLayerPosition(99, 0, 0))
	assert.True(t, c.RemoveLayer(a))
	assert.False(t, c.RemoveLayer(a))
	_, ok = c.Layer(a)
	assert.False(t, ok)
}

func TestCompositorLayouts(t *testing.T) {
	c, err := NewCompositor(CompositorConfig{Width: 640, Height: 480})
	require.NoError(t, err)

	mainID, pipID := c.LayoutPiP(160, 120, "top-right", 20)
	main, _ := c.Layer(mainID)
	pip, _ := c.Layer(pipID)
	assert.Equal(t, [4]int{0, 0, 640, 480}, [4]int{main.X, main.Y, main.Width, main.Height})
	assert.Equal(t, [4]int{460, 20, 160, 120}, [4]int{pip.X, pip.Y, pip.Width, pip.Height})
	assert.Greater(t, pip.ZOrder, main.ZOrder)

	c, _ = NewCompositor(CompositorConfig{Width: 640, Height: 480})
	_, pipID = c.LayoutPiP(160, 120, "", 20)
	pip, _ = c.Layer(pipID)
	assert.Equal(t, [2]int{460, 340}, [2]int{pip.X, pip.Y}, "bottom-right by default")

	c, _ = NewCompositor(CompositorConfig{Width: 640, Height: 480})
	l, r := c.LayoutSideBySide(10)
	left, _ := c.Layer(l)
	right, _ := c.Layer(r)
	assert.Equal(t, 315, left.Width)
	assert.Equal(t, 325, right.X)

	c, _ = NewCompositor(CompositorConfig{Width: 640, Height: 480})
	ids := c.LayoutGrid(3, 2, 0)
	require.Len(t, ids, 3)
	third, _ := c.Layer(ids[2])
	assert.Equal(t, [4]int{0, 240, 320, 240}, [4]int{third.X, third.Y, third.Width, third.Height})
	assert.Nil(t, c.LayoutGrid(0, 2, 0))
}

// newSolidFrame returns a YUV420P picture with constant luma and neutral
// chroma.
func newSolidFrame(t *testing.T, w, h int, luma byte) *Frame {
	t.Helper()
	f := newTestVideoFrame(t, w, h, PixelFormatYUV420P)
	data := f.Data(0)
	for i := range data {
		data[i] = luma
	}
	return f
}

func lumaAt(f *Frame, x, y int) byte { return f.Data(0)[y*f.Stride(0)+x] }

func TestCompositorComposite(t *testing.T) {
	requireFFmpeg(t)

	cfg := DefaultCompositorConfig()
	cfg.Width, cfg.Height = 64, 48
	c, err := NewCompositor(cfg)
	require.NoError(t, err)
	defer c.Free()

	canvas, err := c.NewCanvas()
	require.NoError(t, err)
	defer canvas.Free()

	opaque := c.AddLayer(8, 8, 0, 0)
	half := c.AddLayer(40, 8, 0, 0)
	clipped := c.AddLayer(-8, 32, 0, 0)
	scaled := c.AddLayer(32, 32, 8, 8)
	hidden := c.AddLayer(0, 0, 64, 48)
	c.SetLayerAlpha(half, 0.5)
	c.SetLayerVisible(hidden, false)

	square := newSolidFrame(t, 16, 16, 200)
	inputs := map[int]*Frame{
		opaque:  square,
		half:    square,
		clipped: square,
		scaled:  newSolidFrame(t, 32, 32, 100),
		hidden:  square,
	}
	require.NoError(t, c.Composite(canvas, inputs))

	assert.Equal(t, byte(16), lumaAt(canvas, 7, 7), "background")
	assert.Equal(t, byte(200), lumaAt(canvas, 8, 8))
	assert.Equal(t, byte(200), lumaAt(canvas, 23, 23))
	assert.Equal(t, byte(16), lumaAt(canvas, 24, 24))
	assert.Equal(t, byte(108), lumaAt(canvas, 40, 8), "half transparent")
	assert.Equal(t, byte(200), lumaAt(canvas, 0, 32), "clipped at the left edge")
	assert.Equal(t, byte(16), lumaAt(canvas, 8, 32))
	assert.InDelta(t, 100, lumaAt(canvas, 35, 35), 1, "scaled down")
	assert.Equal(t, byte(16), lumaAt(canvas, 40, 40))
	assert.Equal(t, byte(128), canvas.Data(1)[4*canvas.Stride(1)+4])

	// Layers without input are skipped.
	require.NoError(t, c.Composite(canvas, map[int]*Frame{}))
	assert.Equal(t, byte(16), lumaAt(canvas, 8, 8))

	small, err := NewVideoFrame(PixelFormatYUV420P, 32, 24)
	require.NoError(t, err)
	defer small.Free()
	assert.ErrorIs(t, c.Composite(small, inputs), ErrInvalidArgument)
}

func TestBlendPlaneAdd(t *testing.T) {
	dst := plane{data: []byte{100, 100, 250, 250}, stride: 2, w: 2, h: 2}
	src := plane{data: []byte{50, 50}, stride: 2, w: 2, h: 1}
	blendPlane(dst, src, 0, 1, 255, BlendModeAdd, false)
	assert.Equal(t, []byte{100, 100, 255, 255}, dst.data)

	chroma := plane{data: []byte{128, 128}, stride: 2, w: 2, h: 1}
	blendPlane(chroma, plane{data: []byte{160, 96}, stride: 2, w: 2, h: 1}, 0, 0, 255, BlendModeAdd, true)
	assert.Equal(t, []byte{160, 96}, chroma.data)

	copyDst := plane{data: []byte{1, 2, 3, 4}, stride: 2, w: 2, h: 2}
	blendPlane(copyDst, plane{data: []byte{9}, stride: 1, w: 1, h: 1}, 1, 1, 10, BlendModeCopy, false)
	assert.Equal(t, []byte{1, 2, 3, 9}, copyDst.data)

	// Entirely outside
	blendPlane(copyDst, plane{data: []byte{9}, stride: 1, w: 1, h: 1}, 5, 5, 255, BlendModeOver, false)
	assert.Equal(t, []byte{1, 2, 3, 9}, copyDst.data)
}
