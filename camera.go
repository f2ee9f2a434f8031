package main

// Camera is the viewport transform: a world-space offset plus a zoom scale.
// Screen and world conversions are exact inverses of each other.
type Camera struct {
	X    float64
	Y    float64
	Zoom float64
}

func NewCamera() Camera {
	return Camera{X: 0, Y: 0, Zoom: 1.0}
}

func (c Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	return sx/c.Zoom + c.X, sy/c.Zoom + c.Y
}

func (c Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	return (wx - c.X) * c.Zoom, (wy - c.Y) * c.Zoom
}

// ZoomAt rescales around a screen anchor point so the world point under the
// anchor stays put. The new zoom is clamped to [minZoom, maxZoom].
func (c *Camera) ZoomAt(sx, sy, factor, minZoom, maxZoom float64) {
	wx, wy := c.ScreenToWorld(sx, sy)

	c.Zoom *= factor
	if c.Zoom < minZoom {
		c.Zoom = minZoom
	}
	if c.Zoom > maxZoom {
		c.Zoom = maxZoom
	}

	c.X = wx - sx/c.Zoom
	c.Y = wy - sy/c.Zoom
}

func (c *Camera) Pan(dxScreen, dyScreen float64) {
	c.X -= dxScreen / c.Zoom
	c.Y -= dyScreen / c.Zoom
}
