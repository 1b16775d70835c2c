package vecscan

import "runtime"

// DefaultBLASThreshold is the query count at which the KNN orchestrators
// switch from the direct kernel path to the blocked GEMM path. Below it the
// per-query kernel loop wins because the GEMM setup (norm precomputation,
// panel buffers) does not amortize.
const DefaultBLASThreshold = 20

// SearchOptions configures the orchestrators in this package. Options apply
// per call; there is no process-global tuning state.
type SearchOptions struct {
	// BLASThreshold is the query count at or above which KNN switches to
	// the blocked GEMM path. Defaults to DefaultBLASThreshold.
	BLASThreshold int

	// Workers caps the fan-out parallelism of the direct path, range
	// search and parallel argsort. Defaults to runtime.GOMAXPROCS(0).
	Workers int

	// Logger receives debug events such as path selection and block
	// geometry. Defaults to NoopLogger().
	Logger *Logger
}

// WithBLASThreshold overrides the direct/GEMM switchover point.
// Zero forces the GEMM path for every call.
func WithBLASThreshold(n int) func(*SearchOptions) {
	return func(o *SearchOptions) {
		o.BLASThreshold = n
	}
}

// WithWorkers caps the number of concurrent workers.
func WithWorkers(n int) func(*SearchOptions) {
	return func(o *SearchOptions) {
		o.Workers = n
	}
}

// WithLogger configures structured debug logging.
func WithLogger(logger *Logger) func(*SearchOptions) {
	return func(o *SearchOptions) {
		o.Logger = logger
	}
}

func applySearchOptions(optFns []func(*SearchOptions)) SearchOptions {
	o := SearchOptions{
		BLASThreshold: DefaultBLASThreshold,
		Workers:       runtime.GOMAXPROCS(0),
		Logger:        NoopLogger(),
	}

	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.Workers < 1 {
		o.Workers = 1
	}

	if o.Logger == nil {
		o.Logger = NoopLogger()
	}

	return o
}
