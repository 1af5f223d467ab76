package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/axellelanca/linkpool/cmd"
	"github.com/axellelanca/linkpool/internal/database"
	"github.com/axellelanca/linkpool/internal/models"
	"github.com/axellelanca/linkpool/internal/repository"
	"github.com/axellelanca/linkpool/internal/services"
	"github.com/axellelanca/linkpool/internal/shortcode"
)

var (
	targetsFlag   []string
	codeFlag      string
	permanentFlag bool
)

// CreateCmd représente la commande 'create'
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a short code for one or more destinations.",
	Long: `This command creates a link whose visits are spread over the given targets
and prints the short code.

Example:
  linkpool create --target=https://a.example --target=https://b.example --code=launch`,
	Run: func(command *cobra.Command, args []string) {
		cfg := cmd.Cfg

		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close(db)

		linkRepo := repository.NewLinkRepository(db)
		targetRepo := repository.NewTargetRepository(db)
		linkService := services.NewLinkService(linkRepo, targetRepo,
			shortcode.NewRandomGenerator(cfg.Links.CodeLength), cfg.Links.CodeRetries, cfg.Links.TargetCap)

		mode := models.RedirectTemporary
		if permanentFlag || (!command.Flags().Changed("permanent") && cfg.Links.PermanentByDefault) {
			mode = models.RedirectPermanent
		}

		details, err := linkService.CreateLink(context.Background(), services.CreateLinkInput{
			Code:         codeFlag,
			Mode:         mode,
			Destinations: targetsFlag,
		})
		if err != nil {
			log.Fatalf("Failed to create short link: %v", err)
		}

		fmt.Printf("Lien créé avec succès:\n")
		fmt.Printf("Code: %s\n", details.Link.Code)
		fmt.Printf("URL complète: %s/%s\n", cfg.Server.BaseURL, details.Link.Code)
		fmt.Printf("Redirection: %s\n", details.Link.Mode())
		for _, target := range details.Targets {
			fmt.Printf("  -> %s\n", target.DestinationURL)
		}
	},
}

func init() {
	CreateCmd.Flags().StringArrayVar(&targetsFlag, "target", nil, "Destination URL (repeat for several targets)")
	CreateCmd.Flags().StringVar(&codeFlag, "code", "", "Short code to use instead of a generated one")
	CreateCmd.Flags().BoolVar(&permanentFlag, "permanent", false, "Issue permanent (301) redirects")
	CreateCmd.MarkFlagRequired("target")

	cmd.RootCmd.AddCommand(CreateCmd)
}
