// Package frames wraps the two external tools the scheduler depends on:
// ffprobe to count the frames of a movie's first video stream, and ffmpeg
// to write one frame as a PNG.
//
// Both calls are plain functions of their inputs. Failures are classified
// with the failure package markers (tool missing, tool execution, parse,
// zero count) so callers can decide on policy without string matching.
package frames
