// Package output isolates a single render pass, drives an external render
// and locates the file it produced.
//
// The flow for one pass is handled by [Pipeline.Run]:
//
//  1. Detect the active renderer and pick its [passes.Backend].
//  2. Choose a [passes.Mode] from the pass name with [ModeFor].
//  3. Apply render settings through a [host.Recorder] so they can be undone.
//  4. [Isolate] the pass (full mode) or disable every pass (preview mode).
//  5. Remove stale files with [Resolver.Clean], call the [Invoker], then
//     [Resolver.Resolve] the written file.
//  6. Restore every recorded attribute and the time cursor.
//
// A render that writes nothing is not an error. Resolve returns a best-guess
// path with a NO_RENDER_OUTPUT warning instead.
package output
