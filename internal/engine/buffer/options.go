package buffer

// Option configures a Buffer.
type Option func(*Buffer)

// WithReadOnly makes the buffer reject Insert and Delete with ErrReadOnly.
func WithReadOnly(readOnly bool) Option {
	return func(b *Buffer) {
		b.readOnly = readOnly
	}
}
