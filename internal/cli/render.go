package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
	"github.com/heartmarshall/shoplist-backend/internal/modal"
)

func okMark() string {
	return color.New(color.FgGreen).Sprint("✓")
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func status(completed bool) string {
	if completed {
		return color.New(color.FgGreen).Sprint("done")
	}
	return color.New(color.FgYellow).Sprint("pending")
}

func renderProducts(w io.Writer, rows []domain.Product, p domain.Pagination) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No products found")
		renderPagination(w, p)
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY")
	fmt.Fprintln(tw, "--\t----\t--------")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.Name, orDash(r.Category))
	}
	tw.Flush()
	renderPagination(w, p)
}

func renderProduct(w io.Writer, p domain.Product) {
	fmt.Fprintf(w, "Product %d: %s\n", p.ID, color.New(color.Bold).Sprint(p.Name))
	fmt.Fprintf(w, "  Category: %s\n", orDash(p.Category))
	fmt.Fprintf(w, "  Created:  %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "  Updated:  %s\n", p.UpdatedAt.Local().Format("2006-01-02 15:04"))
}

func renderLists(w io.Writer, rows []domain.ShoppingList, p domain.Pagination) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No shopping lists found")
		renderPagination(w, p)
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCREATED\tITEMS\tTOTAL\tSTATUS")
	fmt.Fprintln(tw, "--\t----\t-------\t-----\t-----\t------")
	for _, l := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			l.ID, orDash(l.Name), l.CreatedAt.Local().Format("2006-01-02"),
			len(l.Items), l.Total().StringFixed(2), status(l.Completed))
	}
	tw.Flush()
	renderPagination(w, p)
}

func renderList(w io.Writer, l domain.ShoppingList) {
	fmt.Fprintf(w, "Shopping list %d: %s [%s]\n", l.ID, orDash(l.Name), status(l.Completed))
	fmt.Fprintf(w, "  Created: %s\n", l.CreatedAt.Local().Format("2006-01-02 15:04"))
	if len(l.Items) == 0 {
		fmt.Fprintln(w, "  (no items)")
		return
	}

	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "  #\tPRODUCT\tQTY\tPRICE\tSUBTOTAL")
	fmt.Fprintln(tw, "  -\t-------\t---\t-----\t--------")
	for i, it := range l.Items {
		name := "#" + strconv.FormatInt(it.ProductID, 10)
		if it.Product != nil {
			name = it.Product.Name
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n",
			i+1, name, it.Quantity.String(), it.UnitPrice.StringFixed(2), it.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(tw, "  \t\t\tTOTAL\t%s\n", l.Total().StringFixed(2))
	tw.Flush()
}

func renderPagination(w io.Writer, p domain.Pagination) {
	if p.TotalPages <= 1 {
		return
	}
	fmt.Fprintf(w, "\nPage %d of %d (%d total)\n", p.Page, p.TotalPages, p.TotalItems)
}

// renderPicker prints the rows of a search session numbered from 1 so
// that one can be chosen with --pick.
func renderPicker[T any](w io.Writer, snap modal.Snapshot[T]) {
	fmt.Fprintln(w, color.New(color.Bold).Sprint(snap.Title))
	if snap.Term != "" {
		fmt.Fprintf(w, "Search: %q\n", snap.Term)
	}

	tw := newTable(w)
	fmt.Fprint(tw, "#")
	for _, c := range snap.Columns {
		fmt.Fprintf(tw, "\t%s", c.Title)
	}
	fmt.Fprintln(tw)
	for i, row := range snap.Rows {
		fmt.Fprintf(tw, "%d", i+1)
		for _, c := range snap.Columns {
			fmt.Fprintf(tw, "\t%s", c.Value(row))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
	renderPagination(w, snap.Pagination)
}
