package cache

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key for the layout of the graph with the given
	// content hash under opts.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts lists every option that influences a layout result.
type LayoutKeyOpts struct {
	Passes          []string `json:"passes"`
	Seed            uint64   `json:"seed"`
	ReseedThreshold float64  `json:"reseed_threshold"`
	Index           string   `json:"index"`
	Theta           float64  `json:"theta"`
	RandomSize      float64  `json:"random_size"`
	RescaleDistance float64  `json:"rescale_distance"`

	// Params holds the algorithm parameter structs. It must be JSON
	// serializable; its encoding becomes part of the key.
	Params any `json:"params,omitempty"`
}

// DefaultKeyer hashes the options into "layout:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
