package blobgo

import "github.com/hupe1980/blobgo/pile"

type options struct {
	logger      *Logger
	compression string
}

// Option configures a Store.
type Option func(*options)

// WithLogger configures the store's logger. If nil is passed, logging is
// disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithCompression configures the codec used by Save snapshots: one of
// pile.CompressionNone, pile.CompressionZstd, pile.CompressionLZ4.
func WithCompression(name string) Option {
	return func(o *options) {
		o.compression = name
	}
}

func applyOptions(opts []Option) options {
	o := options{
		logger:      NoopLogger(),
		compression: pile.CompressionZstd,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
