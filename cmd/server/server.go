package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/axellelanca/linkpool/cmd"
	"github.com/axellelanca/linkpool/internal/api"
	"github.com/axellelanca/linkpool/internal/database"
	"github.com/axellelanca/linkpool/internal/monitor"
	"github.com/axellelanca/linkpool/internal/repository"
	"github.com/axellelanca/linkpool/internal/services"
	"github.com/axellelanca/linkpool/internal/shortcode"
)

// shutdownTimeout bounds how long in-flight requests get after a stop signal.
const shutdownTimeout = 10 * time.Second

// RunServerCmd représente la commande 'run-server' de Cobra.
// C'est le point d'entrée pour lancer le serveur de l'application.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the redirect and link API server.",
	Long: `This command opens and migrates the database, wires the link API and
the redirect engine, optionally starts the destination monitor, then serves HTTP
until SIGINT or SIGTERM.`,
	Run: func(command *cobra.Command, args []string) {
		cfg := cmd.Cfg

		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("Échec de la connexion à la base de données : %v", err)
		}
		defer database.Close(db)

		linkRepo := repository.NewLinkRepository(db)
		targetRepo := repository.NewTargetRepository(db)
		log.Println("Repositories initialisés.")

		generator := shortcode.NewRandomGenerator(cfg.Links.CodeLength)
		linkService := services.NewLinkService(linkRepo, targetRepo, generator, cfg.Links.CodeRetries, cfg.Links.TargetCap)
		counter := services.NewVisitCounter(linkRepo, targetRepo, cfg.CounterTimeout())
		resolver := services.NewResolver(linkRepo, targetRepo, counter, cfg.Links.TargetCap)
		log.Println("Services métiers initialisés.")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Monitor.Enabled {
			urlMonitor := monitor.NewUrlMonitor(targetRepo, cfg.MonitorInterval())
			go urlMonitor.Start(ctx)
			log.Printf("Moniteur d'URLs démarré avec un intervalle de %v.", cfg.MonitorInterval())
		}

		router := gin.Default()
		api.SetupRoutes(router, linkService, resolver, api.Options{PermanentByDefault: cfg.Links.PermanentByDefault})
		log.Println("Routes API configurées.")

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:         serverAddr,
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		go func() {
			log.Printf("Démarrage du serveur sur %s", serverAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Échec du démarrage du serveur : %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("Signal d'arrêt reçu. Arrêt du serveur...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Arrêt forcé du serveur : %v", err)
		}

		// Pending visit increments still hold the database; let them land.
		// Close also rejects visits from handlers a failed Shutdown left running.
		counter.Close()
		log.Println("Serveur arrêté proprement.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
