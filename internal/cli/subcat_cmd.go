package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/punchclock/internal/cli/formatter"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/service"
	"github.com/spf13/cobra"
)

func newSubcatCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subcat",
		Aliases: []string{"sub"},
		Short:   "Show and edit subcategory slots",
	}
	cmd.AddCommand(
		newSubcatListCmd(app),
		newSubcatSetCmd(app),
	)
	return cmd
}

func newSubcatListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [CATEGORY]",
		Short: "List the slots of one or all categories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			categories := app.Subcats.Categories(ctx)
			if len(args) == 1 {
				c, err := findCategory(categories, args[0])
				if err != nil {
					return err
				}
				categories = []domain.Category{c}
			}

			var b strings.Builder
			for i, c := range categories {
				slots, err := app.Subcats.List(ctx, c.Key)
				if err != nil {
					return err
				}
				if i > 0 {
					b.WriteString("\n")
				}
				b.WriteString(formatter.FormatSubcategories(c, slots))
			}
			fmt.Fprint(cmd.OutOrStdout(), b.String())
			return nil
		},
	}
}

func newSubcatSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set CATEGORY DIGIT [TEXT]",
		Short: "Set the label of a slot; prompts for it when TEXT is omitted",
		Example: `  punchclock subcat set a 1 reading
  punchclock subcat set a 0`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := findCategory(app.Subcats.Categories(ctx), args[0])
			if err != nil {
				return err
			}
			digit, err := strconv.Atoi(args[1])
			if err != nil || digit < 0 || digit > 9 {
				return fmt.Errorf("digit %q: %w", args[1], domain.ErrInvalidDigit)
			}

			var text string
			if len(args) == 3 {
				text = args[2]
			} else {
				if !app.interactive() {
					return fmt.Errorf("TEXT is required when stdin is not a terminal")
				}
				slots, err := app.Subcats.List(ctx, c.Key)
				if err != nil {
					return err
				}
				text = slots[domain.SlotForDigit(digit)]
				if err := slotLabelForm(c, digit, &text).Run(); err != nil {
					return err
				}
			}

			if err := app.Subcats.Set(ctx, c.Key, digit, text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s slot %d = %q\n", c.Name, digit, strings.ToLower(text))
			return nil
		},
	}
}

func findCategory(categories []domain.Category, key string) (domain.Category, error) {
	k := strings.ToLower(key)
	for _, c := range categories {
		if c.Key == k {
			return c, nil
		}
	}
	return domain.Category{}, fmt.Errorf("category %q: %w", key, service.ErrUnknownCategory)
}
