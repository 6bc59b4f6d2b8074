package input

import (
	"strings"

	"github.com/rivo/uniseg"
)

// ShowCmdWidth is the number of columns ShowCmd fills.
const ShowCmdWidth = 10

// ShowCmd returns the partial command typed so far, including keys held
// back for a mapping, cut to the last ShowCmdWidth columns. It is empty
// when Config.ShowCmd is off.
func (d *Dispatcher) ShowCmd() string {
	if !d.config.ShowCmd {
		return ""
	}
	text := d.builder.Keys().Printable() + d.mapState.Keys().Printable()
	return lastColumns(text, ShowCmdWidth)
}

// lastColumns returns the longest suffix of s that fits in width
// columns without splitting a grapheme cluster.
func lastColumns(s string, width int) string {
	var clusters []string
	var widths []int
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		clusters = append(clusters, g.Str())
		widths = append(widths, g.Width())
	}

	used := 0
	i := len(clusters)
	for i > 0 && used+widths[i-1] <= width {
		used += widths[i-1]
		i--
	}
	return strings.Join(clusters[i:], "")
}
