// Package writers owns the output side of a run.
//
// Files are staged in a temporary sibling and renamed into place on Commit,
// so a failed run never leaves a partial alignment behind. The path "-"
// streams to the caller's stdout instead.
package writers
