package cache

// Keyer builds cache keys. Implementations must be deterministic.
type Keyer interface {
	// MeshKey identifies the node and edge export of a layout.
	MeshKey(layoutHash string) string
	// ArtifactKey identifies one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Engine      string  `json:"engine"`
	Scale       float64 `json:"scale"`
	ActiveSize  float64 `json:"active_size"`
	PassiveSize float64 `json:"passive_size"`
}

// DefaultKeyer produces "mesh:" and "artifact:" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// MeshKey implements [Keyer].
func (DefaultKeyer) MeshKey(layoutHash string) string {
	return hashKey("mesh", layoutHash)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
