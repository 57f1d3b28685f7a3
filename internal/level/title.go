package level

import "slices"

// Title is the badge shown for a range of levels.
type Title struct {
	MinLevel int    `json:"min_level"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Color    string `json:"color"` // hex, rendered by the ui layer
}

// TitleTable maps level ranges to titles. Entries need not be sorted.
type TitleTable []Title

// DefaultTitles is the badge ladder shared by both metrics.
func DefaultTitles() TitleTable {
	return TitleTable{
		{MinLevel: 1, Name: "Seedling", Icon: "🌱", Color: "#8B8680"},
		{MinLevel: 5, Name: "Sprout", Icon: "🌿", Color: "#50C878"},
		{MinLevel: 10, Name: "Sapling", Icon: "🪴", Color: "#2E8B57"},
		{MinLevel: 20, Name: "Grower", Icon: "🌳", Color: "#0F52BA"},
		{MinLevel: 30, Name: "Regular", Icon: "⭐", Color: "#4169E1"},
		{MinLevel: 50, Name: "Devoted", Icon: "🔥", Color: "#FFBF00"},
		{MinLevel: 75, Name: "Veteran", Icon: "💎", Color: "#B87333"},
		{MinLevel: 100, Name: "Master", Icon: "🏆", Color: "#FFD700"},
		{MinLevel: 200, Name: "Grandmaster", Icon: "👑", Color: "#E0115F"},
		{MinLevel: 500, Name: "Legend", Icon: "🌟", Color: "#9400D3"},
	}
}

// Lookup returns the title with the greatest MinLevel not above l.
// Levels below every entry get the lowest entry; an empty table yields the zero Title.
func (tt TitleTable) Lookup(l int) Title {
	if len(tt) == 0 {
		return Title{}
	}
	sorted := slices.Clone(tt)
	slices.SortFunc(sorted, func(a, b Title) int { return a.MinLevel - b.MinLevel })

	best := sorted[0]
	for _, t := range sorted[1:] {
		if t.MinLevel > l {
			break
		}
		best = t
	}
	return best
}
