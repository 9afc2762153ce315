package cache

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// GridKey identifies a binarized and resolved pixel grid.
	GridKey(imageHash string, opts GridKeyOpts) string

	// ArtifactKey identifies one encoded output of a conversion.
	ArtifactKey(imageHash, rulesHash string, opts ArtifactKeyOpts) string
}

// GridKeyOpts are the options that change the resolved grid.
type GridKeyOpts struct {
	Threshold int  `json:"threshold"`
	Auto      bool `json:"auto,omitempty"`
	MaxPasses int  `json:"max_passes"`
}

// ArtifactKeyOpts are the options that change an encoded output.
type ArtifactKeyOpts struct {
	Format       string      `json:"format"`
	Grid         GridKeyOpts `json:"grid"`
	PixelSize    float64     `json:"pixel_size"`
	Stack        []string    `json:"stack,omitempty"`
	Vias         bool        `json:"vias"`
	MaxShapeSize float64     `json:"max_shape_size,omitempty"`
	Cell         string      `json:"cell"`
	Macro        string      `json:"macro"`
	Library      string      `json:"library"`
	Timestamp    int64       `json:"timestamp,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) GridKey(imageHash string, opts GridKeyOpts) string {
	return hashKey("grid", imageHash, opts)
}

func (DefaultKeyer) ArtifactKey(imageHash, rulesHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", imageHash, rulesHash, opts)
}
