// Package taxonomy holds the fixed tag enumerations solutions are classified by.
package taxonomy

// Category is a technology category tag.
type Category string

// Category constants.
const (
	Robotics       Category = "Robotics"
	Safety         Category = "Safety"
	AI             Category = "AI"
	Sustainability Category = "Sustainability"
	Productivity   Category = "Productivity"
	Estimating     Category = "Estimating"
	Scheduling     Category = "Scheduling"
	Layout         Category = "Layout"
)

// Region is a geographic availability tag.
type Region string

// Region constants.
const (
	NorthAmerica Region = "North America"
	Europe       Region = "Europe"
	AsiaPacific  Region = "Asia Pacific"
	LatinAmerica Region = "Latin America"
	MiddleEast   Region = "Middle East"
)

// Vertical is a market vertical tag.
type Vertical string

// Vertical constants.
const (
	Datacenter  Vertical = "Datacenter"
	Hospital    Vertical = "Hospital"
	Airport     Vertical = "Airport"
	Commercial  Vertical = "Commercial"
	Industrial  Vertical = "Industrial"
	Residential Vertical = "Residential"
)

var (
	categories = []Category{Robotics, Safety, AI, Sustainability, Productivity, Estimating, Scheduling, Layout}
	regions    = []Region{NorthAmerica, Europe, AsiaPacific, LatinAmerica, MiddleEast}
	verticals  = []Vertical{Datacenter, Hospital, Airport, Commercial, Industrial, Residential}
)

// Categories returns every category in presentation order.
func Categories() []Category { return append([]Category(nil), categories...) }

// Regions returns every region in presentation order.
func Regions() []Region { return append([]Region(nil), regions...) }

// Verticals returns every vertical in presentation order.
func Verticals() []Vertical { return append([]Vertical(nil), verticals...) }

// IsValid reports whether c is a member of the category enumeration.
func (c Category) IsValid() bool { return contains(categories, c) }

// IsValid reports whether r is a member of the region enumeration.
func (r Region) IsValid() bool { return contains(regions, r) }

// IsValid reports whether v is a member of the vertical enumeration.
func (v Vertical) IsValid() bool { return contains(verticals, v) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
