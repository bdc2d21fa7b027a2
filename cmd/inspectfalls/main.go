// Command inspectfalls prints a summary of the persisted fall log.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/edgeabyss/ridersim/internal/falllog"
)

func main() {
	path := flag.String("db", "data/falls.db", "fall log database path")
	limit := flag.Int("n", 20, "number of recent falls to list")
	flag.Parse()

	store, err := falllog.Open(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open fall log: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fmt.Printf("fall log: %s  (%s on disk, %s rows)\n\n",
		*path, humanize.Bytes(uint64(store.Size())), humanize.Comma(store.Rows()))

	byReason, err := store.CountByReason()
	if err != nil {
		fmt.Fprintf(os.Stderr, "count by reason: %v\n", err)
		os.Exit(1)
	}
	printCounts("falls by reason", byReason)

	byCourse, err := store.CountByCourse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "count by course: %v\n", err)
		os.Exit(1)
	}
	printCounts("falls by course", byCourse)

	recent, err := store.Recent(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recent falls: %v\n", err)
		os.Exit(1)
	}
	if len(recent) == 0 {
		fmt.Println("no falls recorded")
		return
	}

	fmt.Printf("last %d falls:\n", len(recent))
	for _, r := range recent {
		cause := r.Cause
		if cause == "" {
			cause = "-"
		}
		fmt.Printf("  %-14s %-6s %-14s cause=%-20s speed=%5.1f stab=%.2f lean=%+6.1f  at (%.0f, %.0f, %.0f)  %s\n",
			r.Course, r.Kind, r.Reason, cause, r.Speed, r.Stability, r.Lean,
			r.X, r.Y, r.Z, humanize.Time(r.OccurredAt))
	}
}

func printCounts(title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return counts[keys[i]] > counts[keys[j]] })

	fmt.Printf("%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-16s %s\n", k, humanize.Comma(counts[k]))
	}
	fmt.Println()
}
