package utils

import "io"

type flusher interface {
	Flush() error
}

type flushingWriter struct {
	destination io.Writer
	flusher     flusher
}

// NewFlushingWriter wraps destination so that every write is flushed immediately when the destination
// supports flushing. Check output streamed through buffered writers stays in step with subprocess output.
func NewFlushingWriter(destination io.Writer) io.Writer {
	if destination == nil {
		return io.Discard
	}
	writer := &flushingWriter{destination: destination}
	if destinationFlusher, supportsFlush := destination.(flusher); supportsFlush {
		writer.flusher = destinationFlusher
	}
	return writer
}

func (writer *flushingWriter) Write(data []byte) (int, error) {
	bytesWritten, writeError := writer.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if writer.flusher == nil {
		return bytesWritten, nil
	}
	return bytesWritten, writer.flusher.Flush()
}
