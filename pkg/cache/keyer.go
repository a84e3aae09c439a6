package cache

// Keyer builds cache keys.
type Keyer interface {
	// GridKey returns the key of a composed page whose cell images hash to
	// contentHash.
	GridKey(contentHash string, opts GridKeyOpts) string
}

// GridKeyOpts are the rendering inputs besides the cell images. Style,
// Header and Footer are hashed by their JSON encoding.
type GridKeyOpts struct {
	ColHeaders  []string `json:"col_headers"`
	RowHeaders  []string `json:"row_headers"`
	CurrentPage int      `json:"current_page"`
	TotalPages  int      `json:"total_pages"`
	Style       any      `json:"style"`
	Header      any      `json:"header,omitempty"`
	Footer      any      `json:"footer,omitempty"`
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GridKey implements Keyer.
func (DefaultKeyer) GridKey(contentHash string, opts GridKeyOpts) string {
	return hashKey("grid", contentHash, opts)
}
