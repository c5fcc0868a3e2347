// cmd/sweetctl/render.go
package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/candyline/sweetshop/internal/core/domain"
)

// renderSweets prints the displayed subset as a table, in server order
func (a *app) renderSweets(sweets []domain.Sweet) {
	if len(sweets) == 0 {
		fmt.Fprintln(a.out, "No sweets found.")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, s := range sweets {
		stock := strconv.Itoa(s.Quantity)
		if !s.InStock() {
			stock = "Out of Stock"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t$%s\t%s\n",
			s.ID, s.Name, s.Category, s.Price.StringFixed(2), stock)
	}
	w.Flush()
}

// printNotices flushes the dashboard's active notices to the terminal
func (a *app) printNotices() {
	for _, n := range a.dashboard.Notices() {
		switch n.Severity {
		case domain.SeverityError:
			fmt.Fprintf(a.out, "Error: %s\n", n.Message)
		default:
			fmt.Fprintln(a.out, n.Message)
		}
	}
}
