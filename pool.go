package mdrender

import "runtime"

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps workers for batch rendering. Renders are pure
	// CPU; more workers than cores only adds contention.
	MaxPoolSize = 16
)

// ServicePool hands out Service instances for parallel batch
// rendering, bounding how many renders run at once.
type ServicePool struct {
	size int
	sem  chan *Service
}

// NewServicePool creates a pool with n Service instances sharing the
// same options. n is clamped to [MinPoolSize, MaxPoolSize].
func NewServicePool(n int, opts ...Option) (*ServicePool, error) {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	if n > MaxPoolSize {
		n = MaxPoolSize
	}

	p := &ServicePool{
		size: n,
		sem:  make(chan *Service, n),
	}
	for i := 0; i < n; i++ {
		svc, err := New(opts...)
		if err != nil {
			return nil, err
		}
		p.sem <- svc
	}
	return p, nil
}

// Acquire gets a service from the pool. Blocks if all are in use.
func (p *ServicePool) Acquire() *Service {
	return <-p.sem
}

// Release returns a service to the pool.
func (p *ServicePool) Release(svc *Service) {
	p.sem <- svc
}

// Size returns the pool capacity.
func (p *ServicePool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size for batch rendering.
// Priority: explicit workers > GOMAXPROCS (adjusted by automaxprocs
// in containers). Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		if workers > MaxPoolSize {
			return MaxPoolSize
		}
		return workers
	}

	n := runtime.GOMAXPROCS(0)
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
