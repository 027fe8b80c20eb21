package renderer

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// DefaultMaxOutputBytes caps the size of a single rendering (256 MiB).
const DefaultMaxOutputBytes = 256 << 20

// Options configures renderer behavior.
type Options struct {
	// Indent pretty-prints structured output with the given indent string.
	// Empty means compact output. Hypertext output is always compact.
	Indent string

	// MaxOutputBytes fails a rendering with ErrOutputLimit once it would
	// exceed this many bytes. Zero or less disables the limit.
	MaxOutputBytes int
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxOutputBytes: DefaultMaxOutputBytes,
	}
}
