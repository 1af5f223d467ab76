package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	customerrors "github.com/axellelanca/linkpool/internal/errors"
	"github.com/axellelanca/linkpool/internal/models"
	"github.com/axellelanca/linkpool/internal/services"
)

// Options carries the request-level defaults of the API.
type Options struct {
	// PermanentByDefault applies when a create request omits permanent_redirect
	PermanentByDefault bool
}

// SetupRoutes configures all Gin routes and injects the services.
func SetupRoutes(router *gin.Engine, linkService *services.LinkService, resolver *services.Resolver, opts Options) {
	router.GET("/health", HealthCheckHandler)

	api := router.Group("/api")
	{
		api.POST("/links", CreateLinkHandler(linkService, opts))
		api.GET("/links/:code", GetLinkHandler(linkService))
	}

	// Any single segment not claimed above is a short code.
	redirect := RedirectHandler(resolver)
	router.GET("/:code", redirect)
	router.POST("/:code", redirect)
}

// HealthCheckHandler handles the /health route to verify service status
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateLinkRequest represents the JSON request body for creating a link.
// Example: {"code": "launch", "permanent_redirect": true, "targets": ["https://a.example"]}
type CreateLinkRequest struct {
	Code              string   `json:"code"`
	PermanentRedirect *bool    `json:"permanent_redirect"`
	Targets           []string `json:"targets"`
}

// CreateLinkHandler handles POST /api/links.
// The target list is checked by the service so that an empty list is reported
// like every other creation failure.
func CreateLinkHandler(linkService *services.LinkService, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		permanent := opts.PermanentByDefault
		if req.PermanentRedirect != nil {
			permanent = *req.PermanentRedirect
		}
		mode := models.RedirectTemporary
		if permanent {
			mode = models.RedirectPermanent
		}

		details, err := linkService.CreateLink(c.Request.Context(), services.CreateLinkInput{
			Code:         req.Code,
			Mode:         mode,
			Destinations: req.Targets,
		})
		if err != nil {
			switch {
			case errors.Is(err, customerrors.ErrInvalidShortCode), errors.Is(err, customerrors.ErrInvalidURL):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, customerrors.ErrDuplicateCode), errors.Is(err, customerrors.ErrEmptyTargetList):
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			default:
				log.Printf("Error creating link: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create link"})
			}
			return
		}

		c.JSON(http.StatusOK, details)
	}
}

// GetLinkHandler handles GET /api/links/:code.
// It reports the link and its capped targets without counting a visit.
func GetLinkHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")

		details, err := linkService.GetLink(c.Request.Context(), code)
		if err != nil {
			if errors.Is(err, customerrors.ErrLinkNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
				return
			}
			log.Printf("Error retrieving link %s: %v", code, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, details)
	}
}

// RedirectHandler resolves the short code and redirects to the chosen target.
// Visit counting happens in the background and never delays the response.
func RedirectHandler(resolver *services.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")

		res, err := resolver.Resolve(c.Request.Context(), code)
		if err != nil {
			if errors.Is(err, customerrors.ErrLinkNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
				return
			}
			log.Printf("Error resolving %s: %v", code, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Redirect(RedirectStatus(res.Mode), res.DestinationURL)
	}
}

// RedirectStatus maps a redirect mode to its HTTP status code.
func RedirectStatus(mode models.RedirectMode) int {
	if mode == models.RedirectPermanent {
		return http.StatusMovedPermanently
	}
	return http.StatusTemporaryRedirect
}
