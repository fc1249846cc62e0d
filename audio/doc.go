// Package audio resolves which recording to transcribe and loads it.
//
// Resolution never scans directories: the requested path is used when it
// names a regular file, and the configured fallback replaces it only when the
// request was the default input.
package audio
