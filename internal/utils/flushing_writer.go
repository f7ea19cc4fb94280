package utils

import (
	"io"
	"sync"
)

// Flusher is implemented by buffered writers that can force pending data out.
type Flusher interface {
	Flush() error
}

// FlushingWriter serializes writes to the command output stream and flushes
// buffered delegates so progress lines appear as soon as they are printed.
type FlushingWriter struct {
	delegate   io.Writer
	writeMutex sync.Mutex
}

// NewFlushingWriter wraps writer for use as command output. A nil writer
// yields io.Discard and an already wrapped writer is returned unchanged.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return io.Discard
	}
	if existingWriter, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return existingWriter
	}
	return &FlushingWriter{delegate: writer}
}

// Write forwards data to the delegate and flushes it when supported.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	flushingWriter.writeMutex.Lock()
	defer flushingWriter.writeMutex.Unlock()

	bytesWritten, writeError := flushingWriter.delegate.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushableDelegate, supportsFlush := flushingWriter.delegate.(Flusher); supportsFlush {
		if flushError := flushableDelegate.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}

	return bytesWritten, nil
}
