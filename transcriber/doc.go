// Package transcriber runs one transcription end to end: credential check,
// input resolution, tool server session, the single tool call, decoding and
// persisting the transcript. Stages run strictly in that order and the first
// failure stops the run.
package transcriber
