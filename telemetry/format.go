package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/categorizer/output"
)

// slowOperation is the duration from which timings are highlighted.
const slowOperation = 100 * time.Millisecond

// writeTree prints a node and its children:
//
//	categorize transactions.csv: 42ms
//	├─ rules.build: 12ms
//	│  └─ rules.validate: 1ms
//	└─ match: 30ms
func writeTree(w io.Writer, root *timerNode) {
	styles := output.NewStyles(w)
	_, _ = fmt.Fprintf(w, "%s: %s\n", styles.Keyword(root.name), formatDuration(root.duration()))
	writeChildren(w, styles, root, "")
}

func writeChildren(w io.Writer, styles *output.Styles, node *timerNode, prefix string) {
	for i, child := range node.children {
		branch, extension := "├─ ", "│  "
		if i == len(node.children)-1 {
			branch, extension = "└─ ", "   "
		}

		d := child.duration()
		timing := styles.Dim(formatDuration(d))
		if d >= slowOperation {
			timing = styles.Warning(formatDuration(d))
		}
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", styles.Dim(prefix+branch), child.name, timing)

		writeChildren(w, styles, child, prefix+extension)
	}
}

// formatDuration prints milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
