package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Keyword runs the deterministic relevance scorer only.
	Keyword Mode = "keyword"
	// Assisted appends matches for terms suggested by the assist provider.
	Assisted Mode = "assisted"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Keyword || m == Assisted
}
