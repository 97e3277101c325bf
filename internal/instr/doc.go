// Package instr is the leaf-operation catalog: constructors for every
// instruction kind the authoring surface can emit (pulse playback, delays,
// acquisition, frame changes, snapshots and barrier directives).
//
// Each constructor validates its arguments and returns a leaf
// sched.Schedule occupying the right channels for the right duration. The
// payload types defined here are opaque to the scheduling core; only
// downstream consumers (rendering, export, execution) interpret them.
package instr
