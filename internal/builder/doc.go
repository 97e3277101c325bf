// Package builder is the imperative authoring interface over the
// scheduling IR. A Builder maintains a stack of scope frames; each frame
// accumulates fragments in arrival order and applies its alignment policy
// when the scope closes, appending the repacked result into the parent
// frame. Closing the outermost frame yields the finished program with
// scheduling directives removed.
//
// The builder is an explicit handle: every authoring call goes through the
// *Builder passed to the program function, and the context is released
// when Build returns, including on error paths. A Builder is for a single
// goroutine; concurrent sessions must each call Build and use their own
// handle. Sharing one Builder across goroutines is not supported.
//
// Gate-level calls (Call, CallGate and friends) are buffered into a
// pending sub-program and only translated when an incompatible operation
// forces it: appending a raw leaf, entering or closing any scope, reading
// builder state, changing translation settings, or finishing the program.
// Flush forces translation explicitly. Buffering is purely a batching
// optimization - observable program content is identical either way.
package builder
