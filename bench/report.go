package bench

import (
	"fmt"
	"io"
	"strings"
)

// WriteReport writes one block per result. Labels and their order are fixed
// so reports of different runs can be compared line by line.
func WriteReport(out io.Writer, results []Result) error {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "--- %s (%s) ---\n", r.Name, r.Backend)
		fmt.Fprintf(&b, "samples:     %d\n", r.Samples)
		fmt.Fprintf(&b, "insert:      %s\n", r.InsertElapsed)
		fmt.Fprintf(&b, "query:       %s\n", r.QueryElapsed)
		fmt.Fprintf(&b, "min:         %.4f\n", r.Min)
		fmt.Fprintf(&b, "max:         %.4f\n", r.Max)
		fmt.Fprintf(&b, "median:      %.4f\n", r.Median)
		fmt.Fprintf(&b, "range_hits:  %d\n", r.RangeHits)
		if r.Height > 0 {
			fmt.Fprintf(&b, "height:      %d\n", r.Height)
		}
		if r.Rounds > 1 {
			fmt.Fprintf(&b, "rounds:      %d\n", r.Rounds)
			fmt.Fprintf(&b, "insert_p50:  %s\n", r.InsertP50)
			fmt.Fprintf(&b, "insert_max:  %s\n", r.InsertMax)
			fmt.Fprintf(&b, "query_p50:   %s\n", r.QueryP50)
			fmt.Fprintf(&b, "query_max:   %s\n", r.QueryMax)
		}
	}
	_, err := io.WriteString(out, b.String())
	return err
}
