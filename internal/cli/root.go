// Package cli implements the shoplist command-line client.
package cli

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/shoplist-backend/internal/client"
)

// Env holds what commands run with.
type Env struct {
	Client   *client.Client
	PageSize int
	Clock    clockwork.Clock
	Logger   *slog.Logger
}

// NewRootCmd builds the shoplist command tree.
func NewRootCmd(version string, env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:           "shoplist",
		Short:         "Manage products and shopping lists",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(productsCmd(env))
	root.AddCommand(listsCmd(env))

	return root
}

// Explain adds a connection hint to errors that never reached the API.
func Explain(err error, apiURL string) error {
	if client.IsNetworkError(err) {
		return fmt.Errorf("%w\nis the API running at %s? set SHOPLIST_API_URL to use another address", err, apiURL)
	}
	return err
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// pageFlags are the list query flags shared by list commands.
type pageFlags struct {
	search string
	page   int
	limit  int
	sort   string
	desc   bool
	all    bool
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "case-insensitive name filter")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&f.limit, "limit", "l", 0, "page size (default from SHOPLIST_PAGE_SIZE)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort field")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&f.all, "all", false, "return every match on one page")
}

func (f *pageFlags) query(defaultLimit int) url.Values {
	q := url.Values{}
	if f.search != "" {
		q["search"] = []string{f.search}
	}
	if !f.all {
		limit := f.limit
		if limit <= 0 {
			limit = defaultLimit
		}
		q["page"] = []string{strconv.Itoa(f.page)}
		q["limit"] = []string{strconv.Itoa(limit)}
	}
	if f.sort != "" {
		q["sortField"] = []string{f.sort}
		order := "ASC"
		if f.desc {
			order = "DESC"
		}
		q["sortOrder"] = []string{order}
	}
	return q
}
