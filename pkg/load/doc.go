// Package load models load objects (land plots with electrical attributes)
// and computes their power weighted load center.
//
// # Attributes
//
// Each Object carries P, Q, S and cos φ as the strings the operator entered.
// Editing P or cos φ recomputes Q and S:
//
//	o.SetField(load.FieldActive, "100")
//	o.SetField(load.FieldPowerFactor, "0.8")
//	// o.Apparent == "125.00", o.Reactive == "75.00"
//
// Resolved fills the remaining gaps (S from P and Q, P from S and cos φ)
// without touching the stored strings.
//
// # Load center
//
// LoadCenter weights each object center by its P. The center of an object is
// its explicit override or the mean of its original points.
//
// # Session
//
// Session holds the object list behind a mutex together with the selection
// and the status line, and hands out Snapshot copies for rendering.
package load
