package stats

// Palette is the fixed subject color cycle.
var Palette = [8]string{
	"#60a5fa", "#34d399", "#f59e0b", "#fb7185",
	"#a78bfa", "#f97316", "#06b6d4", "#ef4444",
}

// ColorFor returns the palette color for subject according to its rank in
// order. Unknown subjects take the first color.
func ColorFor(subject string, order []string) string {
	idx := 0
	for i, s := range order {
		if s == subject {
			idx = i
			break
		}
	}
	return Palette[idx%len(Palette)]
}
