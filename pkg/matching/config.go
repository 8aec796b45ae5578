package matching

// BlockingStrategy controls which record pairs are compared at all
type BlockingStrategy string

const (
	// BlockingNone compares every pair (i < j)
	BlockingNone BlockingStrategy = "none"
	// BlockingNameInitial only compares records whose normalized names share a first letter
	BlockingNameInitial BlockingStrategy = "name_initial"
)

// Config contains configuration for matching
type Config struct {
	Weights                Weights
	Thresholds             Thresholds
	MergePolicy            MergePolicy
	NamePrefilterThreshold float64          // Minimum name score for a pair to be evaluated (default: 0.6)
	WorkerCount            int              // Parallel scoring workers (default: 4)
	BlockCount             int              // Index-range blocks to split pairs into; 0 means 4 per worker
	Blocking               BlockingStrategy // Default: none
}

// DefaultConfig returns default matching configuration
func DefaultConfig() Config {
	return Config{
		Weights:                DefaultWeights(),
		Thresholds:             DefaultThresholds(),
		MergePolicy:            DefaultMergePolicy(),
		NamePrefilterThreshold: 0.6,
		WorkerCount:            4,
		BlockCount:             0,
		Blocking:               BlockingNone,
	}
}

func (c Config) workers() int {
	if c.WorkerCount < 1 {
		return 1
	}
	return c.WorkerCount
}

func (c Config) blocks() int {
	if c.BlockCount > 0 {
		return c.BlockCount
	}
	return c.workers() * 4
}
