package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redmango/storefront/internal/account"
	"github.com/redmango/storefront/internal/cart"
	"github.com/redmango/storefront/internal/catalog"
	"github.com/redmango/storefront/internal/config"
	"github.com/redmango/storefront/internal/session"
	"github.com/redmango/storefront/internal/upload"
)

// --- item ---

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage catalog items",
}

var itemCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a catalog item",
	Long: `Create a catalog item.

Example:
  mango item create --name "Milk" --description "Fresh dairy milk" \
    --category dairy --price 2.50 --image ./milk.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := draftFromFlags(cmd, catalog.NewDraft())
		if err != nil {
			return err
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		orch := catalog.NewOrchestrator(app.client, app.notifier, app.navigator)
		return orch.Submit(cmd.Context(), draft)
	},
}

var itemUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an existing catalog item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		item, err := app.client.GetItem(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetching item: %w", err)
		}

		draft, err := draftFromFlags(cmd, catalog.DraftFromItem(item))
		if err != nil {
			return err
		}

		orch := catalog.NewOrchestrator(app.client, app.notifier, app.navigator)
		return orch.Submit(cmd.Context(), draft)
	},
}

var itemShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a catalog item as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		item, err := app.client.GetItem(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(item)
	},
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog items",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		items, err := app.client.ListItems(cmd.Context())
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("No catalog items found.")
			return nil
		}

		for _, item := range items {
			id := item.ID
			if len(id) > 8 {
				id = id[:8]
			}
			line := fmt.Sprintf("%s  %-20s %-10s %s", colorize(colorCyan, id), item.Name, item.Category, item.Price)
			if item.SpecialTag != "" {
				line += "  [" + item.SpecialTag + "]"
			}
			fmt.Println(line)
		}
		return nil
	},
}

// draftFromFlags overlays the item flags onto a base draft. Flags left
// unset keep the base value, so update edits only what was passed.
func draftFromFlags(cmd *cobra.Command, base catalog.Draft) (catalog.Draft, error) {
	if cmd.Flags().Changed("name") {
		base.Name, _ = cmd.Flags().GetString("name")
	}
	if cmd.Flags().Changed("description") {
		base.Description, _ = cmd.Flags().GetString("description")
	}
	if cmd.Flags().Changed("special-tag") {
		base.SpecialTag, _ = cmd.Flags().GetString("special-tag")
	}
	if cmd.Flags().Changed("category") {
		raw, _ := cmd.Flags().GetString("category")
		cat, err := catalog.ParseCategory(raw)
		if err != nil {
			return catalog.Draft{}, fmt.Errorf("%w (valid: %s)", err, joinCategories())
		}
		base.Category = cat
	}
	if cmd.Flags().Changed("price") {
		base.Price, _ = cmd.Flags().GetString("price")
	}
	if cmd.Flags().Changed("image") {
		path, _ := cmd.Flags().GetString("image")
		file, err := stageImage(path)
		if err != nil {
			return catalog.Draft{}, err
		}
		base.Image = file
	}
	return base, nil
}

// stageImage reads a local file and runs it through the upload gates.
func stageImage(path string) (*upload.File, error) {
	f, err := upload.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	var p upload.Pipeline
	if err := p.Select(f); err != nil {
		return nil, err
	}
	staged, _ := p.Staged()
	return &staged, nil
}

func joinCategories() string {
	cats := catalog.Categories()
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func addItemFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "item name")
	cmd.Flags().String("description", "", "item description")
	cmd.Flags().String("special-tag", "", "optional special tag (e.g. \"Best Seller\")")
	cmd.Flags().String("category", "", "item category ("+joinCategories()+")")
	cmd.Flags().String("price", "", "item price as a decimal string")
	cmd.Flags().String("image", "", "path to the item image (jpeg or png)")
}

func init() {
	addItemFlags(itemCreateCmd)
	addItemFlags(itemUpdateCmd)
	itemCmd.AddCommand(itemCreateCmd)
	itemCmd.AddCommand(itemUpdateCmd)
	itemCmd.AddCommand(itemShowCmd)
	itemCmd.AddCommand(itemListCmd)
}

// --- cart ---

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart",
}

var cartAddCmd = &cobra.Command{
	Use:   "add <itemId>",
	Short: "Add an item to the signed-in user's cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, _ := cmd.Flags().GetInt("quantity")

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctrl := cart.NewController(args[0], app.client, app.sessions, app.notifier, app.navigator)
		ctrl.Step(quantity - 1)
		return ctrl.AddToCart(cmd.Context())
	},
}

func init() {
	cartAddCmd.Flags().Int("quantity", 1, "quantity to add")
	cartCmd.AddCommand(cartAddCmd)
}

// --- review ---

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Manage client-local item reviews",
}

var reviewAddCmd = &cobra.Command{
	Use:   "add <itemId> <text>",
	Short: "Append a review for an item",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID := args[0]
		text := strings.Join(args[1:], " ")

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		reviews, err := app.reviews()
		if err != nil {
			return err
		}

		if strings.TrimSpace(text) == "" {
			printWarning("Empty review ignored")
			return nil
		}
		return reviews.Submit(itemID, text)
	},
}

var reviewListCmd = &cobra.Command{
	Use:   "list <itemId>",
	Short: "List stored reviews for an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		reviews, err := app.reviews()
		if err != nil {
			return err
		}

		list := reviews.For(args[0])
		if len(list) == 0 {
			fmt.Println("No reviews found.")
			return nil
		}
		for i, r := range list {
			fmt.Printf("%s %s\n", colorize(colorBold, fmt.Sprintf("%d.", i+1)), r)
		}
		return nil
	},
}

func init() {
	reviewCmd.AddCommand(reviewAddCmd)
	reviewCmd.AddCommand(reviewListCmd)
}

// --- rate ---

var rateCmd = &cobra.Command{
	Use:   "rate <itemId> <stars>",
	Short: "Store a 1-5 star rating for an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stars, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("stars must be a number: %w", err)
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ratings := app.ratings()
		if !app.sessions.Current().Authenticated() {
			printWarning("Not logged in; rating not stored")
		}
		return ratings.Submit(args[0], stars)
	},
}

// --- register / login / logout ---

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account with the storefront backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := account.Form{}
		form.UserName, _ = cmd.Flags().GetString("username")
		form.FullName, _ = cmd.Flags().GetString("name")
		form.Email, _ = cmd.Flags().GetString("email")
		form.PhoneNumber, _ = cmd.Flags().GetString("phone")
		form.Password, _ = cmd.Flags().GetString("password")
		form.ConfirmPassword, _ = cmd.Flags().GetString("confirm-password")
		form.Role, _ = cmd.Flags().GetString("role")
		if form.ConfirmPassword == "" {
			form.ConfirmPassword = form.Password
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		registrar := account.NewRegistrar(app.client, app.notifier, app.navigator)
		return registrar.Submit(cmd.Context(), form)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <userId>",
	Short: "Record the signed-in user for this client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		parsed, err := session.ParseRole(role)
		if err != nil {
			return err
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.sessions.Set(session.Session{UserID: args[0], Role: parsed}); err != nil {
			return err
		}
		printSuccess("Logged in as %s (%s)", args[0], parsed)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.sessions.Clear(); err != nil {
			return err
		}
		printSuccess("Logged out")
		return nil
	},
}

func init() {
	registerCmd.Flags().String("username", "", "user name")
	registerCmd.Flags().String("name", "", "full name")
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().String("phone", "", "phone number")
	registerCmd.Flags().String("password", "", "password")
	registerCmd.Flags().String("confirm-password", "", "password confirmation (defaults to --password)")
	registerCmd.Flags().String("role", session.RoleCustomer, "account role (customer or admin)")

	loginCmd.Flags().String("role", session.RoleCustomer, "session role (customer or admin)")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetKey(args[0], args[1]); err != nil {
			return err
		}
		printSuccess("Set %s = %s", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
