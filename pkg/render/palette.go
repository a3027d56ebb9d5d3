package render

import "hash/fnv"

// Palette is the set of block fill colors.
var Palette = []string{
	"#8ecae6", "#ffb703", "#90be6d", "#f28482", "#cdb4db",
	"#f6bd60", "#84a59d", "#a3c4f3", "#ffafcc", "#b5e48c",
}

// Color returns the palette color for a block ID.
func Color(id string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return Palette[h.Sum32()%uint32(len(Palette))]
}
