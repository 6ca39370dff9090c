// Package viewport projects world coordinates onto a fixed size render
// surface for the interactive preview and the SVG renderer.
//
// # Transform
//
// A Viewport is one uniform scale plus a translation, so the aspect ratio of
// the geometry is always preserved. With InvertY set, world Y grows upward
// and screen Y downward, which is the convention for survey coordinates.
//
// # Fit, pan and zoom
//
// Fit computes the transform from scratch for a bounding box and the current
// surface size. Pan and ZoomAt change the transform only:
//
//	vp := viewport.New(1000, 700)
//	vp.Fit(geom.Bounds(contours...))
//	vp.ZoomAt(cursorX, cursorY, 1.12) // the point under the cursor stays put
//
// Zoom is limited to [MinZoom, MaxZoom] times the scale of the last Fit.
//
// # View zoom
//
// ViewZoom is a separate multiplier for the size of the power circles. It
// does not affect geometry and is also used when exporting circles "as seen".
package viewport
