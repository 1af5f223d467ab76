package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/axellelanca/linkpool/cmd"
	"github.com/axellelanca/linkpool/internal/database"
	customerrors "github.com/axellelanca/linkpool/internal/errors"
	"github.com/axellelanca/linkpool/internal/repository"
	"github.com/axellelanca/linkpool/internal/services"
	"github.com/axellelanca/linkpool/internal/shortcode"
)

// StatsCmd représente la commande 'stats'
var StatsCmd = &cobra.Command{
	Use:   "stats [short-code]",
	Short: "Get visit counts for a short code",
	Long:  `Print the link's visit count and the visit count of each of its targets.`,
	Args:  cobra.ExactArgs(1),
	Run:   runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

// runStats exécute la logique pour la commande stats
func runStats(command *cobra.Command, args []string) {
	code := args[0]
	cfg := cmd.Cfg

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Échec de la connexion à la base de données : %v", err)
	}
	defer database.Close(db)

	linkRepo := repository.NewLinkRepository(db)
	targetRepo := repository.NewTargetRepository(db)
	linkService := services.NewLinkService(linkRepo, targetRepo,
		shortcode.NewRandomGenerator(cfg.Links.CodeLength), cfg.Links.CodeRetries, cfg.Links.TargetCap)

	details, err := linkService.GetLink(context.Background(), code)
	if err != nil {
		if errors.Is(err, customerrors.ErrLinkNotFound) {
			fmt.Printf("Error: Short code '%s' not found\n", code)
		} else {
			fmt.Printf("Error retrieving statistics: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Statistiques pour le code court: %s\n", details.Link.Code)
	fmt.Printf("Redirection: %s\n", details.Link.Mode())
	fmt.Printf("Total de visites: %d\n", details.Link.VisitCount)
	fmt.Printf("Date de création: %s\n", details.Link.CreatedAt.Format("2006-01-02 15:04:05"))
	for _, target := range details.Targets {
		fmt.Printf("  %6d  %s\n", target.VisitCount, target.DestinationURL)
	}
}
