package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/shoplist-backend/internal/service/product"
)

func productsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "p"},
		Short:   "Manage the product catalog",
	}

	cmd.AddCommand(productsListCmd(env))
	cmd.AddCommand(productsGetCmd(env))
	cmd.AddCommand(productsCreateCmd(env))
	cmd.AddCommand(productsUpdateCmd(env))
	cmd.AddCommand(productsDeleteCmd(env))

	return cmd
}

func productsListCmd(env *Env) *cobra.Command {
	var flags pageFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, p, err := env.Client.Products().List(cmd.Context(), flags.query(env.PageSize))
			if err != nil {
				return err
			}
			renderProducts(cmd.OutOrStdout(), rows, p)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func productsGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := env.Client.Products().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func productsCreateCmd(env *Env) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Add a product to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := product.CreateInput{Name: args[0]}
			if cmd.Flags().Changed("category") {
				in.Category = &category
			}
			p, err := env.Client.Products().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created product %d: %s\n", okMark(), p.ID, p.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "product category")
	return cmd
}

func productsUpdateCmd(env *Env) *cobra.Command {
	var name, category string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a product's name or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var in product.UpdateInput
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("category") {
				in.Category = &category
			}
			p, err := env.Client.Products().Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated product %d\n", okMark(), p.ID)
			renderProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category (empty clears it)")
	return cmd
}

func productsDeleteCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a product from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := env.Client.Products().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted product %d\n", okMark(), id)
			return nil
		},
	}
}
