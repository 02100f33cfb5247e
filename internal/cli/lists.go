package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/shoplist-backend/internal/client"
	"github.com/heartmarshall/shoplist-backend/internal/domain"
	"github.com/heartmarshall/shoplist-backend/internal/modal"
	"github.com/heartmarshall/shoplist-backend/internal/service/shoppinglist"
)

func listsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"list", "l"},
		Short:   "Manage shopping lists",
	}

	cmd.AddCommand(listsListCmd(env))
	cmd.AddCommand(listsGetCmd(env))
	cmd.AddCommand(listsCreateCmd(env))
	cmd.AddCommand(listsDeleteCmd(env))
	cmd.AddCommand(listsCompleteCmd(env))
	cmd.AddCommand(listsAddCmd(env))
	cmd.AddCommand(listsRemoveCmd(env))

	return cmd
}

func listsListCmd(env *Env) *cobra.Command {
	var flags pageFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shopping lists, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, p, err := env.Client.Lists().List(cmd.Context(), flags.query(env.PageSize))
			if err != nil {
				return err
			}
			renderLists(cmd.OutOrStdout(), rows, p)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func listsGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a shopping list with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			l, err := env.Client.Lists().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderList(cmd.OutOrStdout(), l)
			return nil
		},
	}
}

func listsCreateCmd(env *Env) *cobra.Command {
	var (
		name  string
		items []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a shopping list",
		Long: `Create a shopping list, optionally with items.

Each --item is PRODUCT_ID[:QUANTITY[:UNIT_PRICE]], e.g. --item 4:2:1.25.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in shoppinglist.CreateInput
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			for _, spec := range items {
				it, err := parseItem(spec)
				if err != nil {
					return err
				}
				in.Items = append(in.Items, it)
			}
			if dup, ok := duplicateProduct(in.Items); ok {
				return fmt.Errorf("product %d is listed twice", dup)
			}

			l, err := env.Client.Lists().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created shopping list %d\n", okMark(), l.ID)
			renderList(cmd.OutOrStdout(), l)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "list name")
	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "item as PRODUCT_ID[:QUANTITY[:UNIT_PRICE]] (repeatable)")
	return cmd
}

func listsDeleteCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a shopping list and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := env.Client.Lists().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted shopping list %d\n", okMark(), id)
			return nil
		},
	}
}

func listsCompleteCmd(env *Env) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a shopping list as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			completed := !undo
			l, err := env.Client.Lists().Update(cmd.Context(), id, shoppinglist.UpdateInput{Completed: &completed})
			if err != nil {
				return err
			}
			renderList(cmd.OutOrStdout(), l)
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark the list as pending again")
	return cmd
}

func listsAddCmd(env *Env) *cobra.Command {
	var (
		term, quantity, price string
		pick, page            int
	)
	cmd := &cobra.Command{
		Use:   "add LIST_ID",
		Short: "Search the catalog and add a product to a list",
		Long: `Search the product catalog and add the chosen product to a list.

With exactly one match the product is added directly. Otherwise the
matches are shown and --pick selects one by its row number.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			listID, err := parseID(args[0])
			if err != nil {
				return err
			}
			q, err := optionalDecimal(quantity)
			if err != nil {
				return err
			}
			p, err := optionalDecimal(price)
			if err != nil {
				return err
			}

			lists := env.Client.Lists()
			l, err := lists.Get(ctx, listID)
			if err != nil {
				return err
			}

			form := modal.NewMapForm(nil)
			picker := client.ProductPicker(env.Client.Products())
			picker.Defaults[modal.ParamLimit] = fmt.Sprint(env.PageSize)
			picker.ManualLoad = true
			search := modal.NewSearchController(form, modal.Options[domain.Product]{
				Clock:  env.Clock,
				Logger: env.Logger,
			}, picker)

			if err := search.Open(ctx, picker.Key, nil); err != nil {
				return err
			}
			defer search.Close()
			if term != "" {
				if err := search.Submit(term); err != nil {
					return err
				}
			}
			if term == "" || page > 1 {
				if err := search.ChangePage(page); err != nil {
					return err
				}
			}

			snap, err := search.WaitIdle(ctx)
			if err != nil {
				return err
			}
			if snap.Err != nil {
				return snap.Err
			}
			if len(snap.Rows) == 0 {
				return errors.New(snap.EmptyMessage)
			}

			idx, err := pickIndex(pick, len(snap.Rows))
			if err != nil {
				renderPicker(cmd.OutOrStdout(), snap)
				return err
			}
			if err := search.Select(snap.Rows[idx]); err != nil {
				return err
			}

			v, _ := form.Get(client.FieldProductID)
			productID, ok := v.(int64)
			if !ok {
				return errors.New("no product selected")
			}
			if slices.Contains(l.ProductIDs(), productID) {
				return fmt.Errorf("product %d is already on list %d", productID, listID)
			}

			items := make([]shoppinglist.ItemInput, 0, len(l.Items)+1)
			for _, it := range l.Items {
				items = append(items, itemInput(it))
			}
			items = append(items, shoppinglist.ItemInput{ProductID: productID, Quantity: q, UnitPrice: p})

			l, err = lists.Update(ctx, listID, shoppinglist.UpdateInput{Items: &items})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s to list %d\n", okMark(), snap.Rows[idx].Name, l.ID)
			renderList(cmd.OutOrStdout(), l)
			return nil
		},
	}
	cmd.Flags().StringVarP(&term, "search", "s", "", "product name filter")
	cmd.Flags().IntVar(&pick, "pick", 0, "row number to add when several products match")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page")
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "", "quantity (default 1)")
	cmd.Flags().StringVar(&price, "price", "", "unit price (default 0)")
	return cmd
}

func listsRemoveCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "remove LIST_ID PRODUCT_ID",
		Short: "Remove a product from a shopping list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, err := parseID(args[0])
			if err != nil {
				return err
			}
			productID, err := parseID(args[1])
			if err != nil {
				return err
			}

			lists := env.Client.Lists()
			l, err := lists.Get(cmd.Context(), listID)
			if err != nil {
				return err
			}

			items := make([]shoppinglist.ItemInput, 0, len(l.Items))
			for _, it := range l.Items {
				if it.ProductID != productID {
					items = append(items, itemInput(it))
				}
			}
			if len(items) == len(l.Items) {
				return fmt.Errorf("product %d is not on list %d", productID, listID)
			}

			l, err = lists.Update(cmd.Context(), listID, shoppinglist.UpdateInput{Items: &items})
			if err != nil {
				return err
			}
			renderList(cmd.OutOrStdout(), l)
			return nil
		},
	}
}

// itemInput converts a stored item back to input form. Replacing the
// collection assigns new ids.
func itemInput(it domain.ListItem) shoppinglist.ItemInput {
	q, p := it.Quantity, it.UnitPrice
	return shoppinglist.ItemInput{ProductID: it.ProductID, Quantity: &q, UnitPrice: &p}
}

func parseItem(spec string) (shoppinglist.ItemInput, error) {
	parts := strings.Split(spec, ":")
	if len(parts) > 3 {
		return shoppinglist.ItemInput{}, fmt.Errorf("invalid item %q", spec)
	}

	id, err := parseID(parts[0])
	if err != nil {
		return shoppinglist.ItemInput{}, fmt.Errorf("invalid item %q: %w", spec, err)
	}
	it := shoppinglist.ItemInput{ProductID: id}

	if len(parts) > 1 && parts[1] != "" {
		q, err := decimal.NewFromString(parts[1])
		if err != nil {
			return shoppinglist.ItemInput{}, fmt.Errorf("invalid quantity in %q", spec)
		}
		it.Quantity = &q
	}
	if len(parts) > 2 && parts[2] != "" {
		p, err := decimal.NewFromString(parts[2])
		if err != nil {
			return shoppinglist.ItemInput{}, fmt.Errorf("invalid unit price in %q", spec)
		}
		it.UnitPrice = &p
	}
	return it, nil
}

func duplicateProduct(items []shoppinglist.ItemInput) (int64, bool) {
	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		if seen[it.ProductID] {
			return it.ProductID, true
		}
		seen[it.ProductID] = true
	}
	return 0, false
}

var errAmbiguous = errors.New("more than one product matches")

func optionalDecimal(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", raw)
	}
	return &d, nil
}

func pickIndex(pick, rows int) (int, error) {
	switch {
	case pick == 0 && rows == 1:
		return 0, nil
	case pick == 0:
		return 0, fmt.Errorf("%w; choose one with --pick 1..%d", errAmbiguous, rows)
	case pick < 0 || pick > rows:
		return 0, fmt.Errorf("--pick must be between 1 and %d", rows)
	default:
		return pick - 1, nil
	}
}
