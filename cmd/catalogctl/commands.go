package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/infrastructure/database/seed"
	"github.com/wichananm65/camera-store-backend/internal/usecase"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the categories and products tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			// database.Open applies the schema.
			svc, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.backend.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample categories and products into an empty catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.backend.Close()

			res, err := seed.Run(cmd.Context(), svc.categories, svc.backend.Products)
			if err != nil {
				return err
			}
			if res.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog is not empty, nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories and %d products\n", res.Categories, res.Products)
			return nil
		},
	}
}

func treeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the category tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.backend.Close()

			all, err := svc.categories.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), all)
			return nil
		},
	}
}

// printTree writes categories indented by level, children under their
// parent in name order.
func printTree(w io.Writer, all []entity.Category) {
	children := make(map[int64][]entity.Category)
	var roots []entity.Category
	for _, c := range all {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}
	var walk func(nodes []entity.Category)
	walk = func(nodes []entity.Category) {
		for _, c := range nodes {
			line := strings.Repeat("  ", c.Level) + c.Name + " (#" + strconv.FormatInt(c.ID, 10) + ")"
			if c.ProductNamePrefix != nil {
				line += " prefix=" + strconv.Quote(*c.ProductNamePrefix)
			}
			fmt.Fprintln(w, line)
			walk(children[c.ID])
		}
	}
	walk(roots)
}

func deleteCmd() *cobra.Command {
	var cascade bool
	cmd := &cobra.Command{
		Use:   "delete [category-id]",
		Short: "Delete a category, clearing product links to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.backend.Close()

			summary, err := svc.categories.Delete(cmd.Context(), id, usecase.DeleteOptions{Cascade: cascade})
			var herr *usecase.HasChildrenError
			if errors.As(err, &herr) {
				return fmt.Errorf("category %d has %d subcategories, re-run with --cascade to delete them too", id, herr.ChildCount)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted category %d: %d subcategories removed, %d products unlinked\n",
				id, summary.CategoriesRemoved, summary.ProductsUnlinked)
			return nil
		},
	}
	cmd.Flags().BoolVar(&cascade, "cascade", false, "also delete every descendant category")
	return cmd
}

func unlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink [category-id]",
		Short: "Clear every product link to a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.backend.Close()

			n, err := svc.links.Unlink(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d products unlinked\n", n)
			return nil
		},
	}
}

func moveProductsCmd() *cobra.Command {
	var (
		target      int64
		clearSub    bool
		clearSubsub bool
	)
	cmd := &cobra.Command{
		Use:   "move-products [category-id]",
		Short: "Move products filed under a category to another top-level category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.backend.Close()

			var targetID *int64
			if cmd.Flags().Changed("target") {
				targetID = &target
			}
			n, err := svc.links.MoveProducts(cmd.Context(), id, targetID, usecase.MoveOptions{
				ClearSubcategory:    clearSub,
				ClearSubsubcategory: clearSubsub,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d products moved\n", n)
			return nil
		},
	}
	cmd.Flags().Int64Var(&target, "target", 0, "top-level category id to move products to")
	cmd.Flags().BoolVar(&clearSub, "clear-subcategory", false, "clear the subcategory of moved products")
	cmd.Flags().BoolVar(&clearSubsub, "clear-subsubcategory", false, "clear the sub-subcategory of moved products")
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid category id %q", raw)
	}
	return id, nil
}
