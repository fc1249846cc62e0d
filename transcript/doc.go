// Package transcript writes a decoded transcript next to its source name.
package transcript
