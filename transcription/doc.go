// Package transcription builds the single transcribe_audio tool call and
// decodes its reply into one transcript string.
//
// Replies come in three shapes, checked in this order:
//
//  1. nested channel JSON: results.channels[0].alternatives[0].transcript
//  2. flat JSON with a top-level transcript field
//  3. anything else, used verbatim as the transcript
//
// The order matters for payloads that carry both a nested and a flat field.
package transcription
