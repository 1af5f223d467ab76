// Package services contains the business logic layer: link creation, lookup and resolution.
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	customerrors "github.com/axellelanca/linkpool/internal/errors"
	"github.com/axellelanca/linkpool/internal/models"
	"github.com/axellelanca/linkpool/internal/repository"
	"github.com/axellelanca/linkpool/internal/shortcode"
)

// DefaultCodeRetries is the number of generated codes tried before giving up.
const DefaultCodeRetries = 3

// CreateLinkInput describes a link to create.
// An empty Code asks the service to generate one.
type CreateLinkInput struct {
	Code         string              // Optional; must pass shortcode.Valid
	Mode         models.RedirectMode // Redirect status served for every visit
	Destinations []string            // Target URLs, stored in this order
}

// LinkDetails is a link together with its (capped) targets.
type LinkDetails struct {
	Link    *models.Link    `json:"link"`
	Targets []models.Target `json:"targets"`
}

// LinkService provides business logic methods for creating and querying links.
// It acts as an intermediary between the HTTP handlers and the repositories.
type LinkService struct {
	linkRepo    repository.LinkRepository   // Link persistence
	targetRepo  repository.TargetRepository // Target persistence
	generator   shortcode.Generator         // Source of candidate codes
	codeRetries int                         // Generated codes tried per creation
	targetCap   int                         // Max targets returned by GetLink
}

// NewLinkService creates and returns a new instance of LinkService.
func NewLinkService(linkRepo repository.LinkRepository, targetRepo repository.TargetRepository, generator shortcode.Generator, codeRetries, targetCap int) *LinkService {
	if codeRetries < 1 {
		codeRetries = DefaultCodeRetries
	}
	if targetCap < 1 {
		targetCap = DefaultTargetCap
	}
	return &LinkService{
		linkRepo:    linkRepo,
		targetRepo:  targetRepo,
		generator:   generator,
		codeRetries: codeRetries,
		targetCap:   targetCap,
	}
}

// CreateLink persists a link and its targets in one transaction.
//
// A supplied code is tried once: a collision is returned as ErrDuplicateCode.
// Without a code, a fresh one is generated after each collision, up to
// codeRetries attempts, before failing with ErrDuplicateCode.
func (s *LinkService) CreateLink(ctx context.Context, in CreateLinkInput) (*LinkDetails, error) {
	// Reject bad input before touching the store
	if len(in.Destinations) == 0 {
		return nil, customerrors.ErrEmptyTargetList
	}
	for i, dest := range in.Destinations {
		if strings.TrimSpace(dest) == "" {
			return nil, fmt.Errorf("target %d: %w", i, customerrors.ErrInvalidURL)
		}
	}

	// Supplied code: one attempt, no regeneration
	if in.Code != "" {
		if !shortcode.Valid(in.Code) {
			return nil, fmt.Errorf("%q: %w", in.Code, customerrors.ErrInvalidShortCode)
		}
		return s.insert(ctx, in.Code, in)
	}

	// Generated code: retry on collision until codeRetries is spent
	for attempt := 1; attempt <= s.codeRetries; attempt++ {
		code, err := s.generator.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate short code: %w", err)
		}
		// A generated code can still hit a reserved route name
		if !shortcode.Valid(code) {
			log.Printf("Short code '%s' is reserved, retrying generation (%d/%d)...", code, attempt, s.codeRetries)
			continue
		}

		details, err := s.insert(ctx, code, in)
		if err == nil {
			return details, nil
		}
		if !errors.Is(err, customerrors.ErrDuplicateCode) {
			return nil, err
		}
		log.Printf("Short code '%s' already exists, retrying generation (%d/%d)...", code, attempt, s.codeRetries)
	}

	return nil, fmt.Errorf("no free code after %d attempts: %w", s.codeRetries, customerrors.ErrDuplicateCode)
}

func (s *LinkService) insert(ctx context.Context, code string, in CreateLinkInput) (*LinkDetails, error) {
	link := &models.Link{
		Code:              code,
		PermanentRedirect: in.Mode == models.RedirectPermanent,
	}
	targets, err := s.linkRepo.CreateLinkWithTargets(ctx, link, in.Destinations)
	if err != nil {
		return nil, err
	}
	return &LinkDetails{Link: link, Targets: targets}, nil
}

// GetLink returns a link and up to targetCap of its targets.
// Unlike resolution it neither draws a target nor touches counters.
func (s *LinkService) GetLink(ctx context.Context, code string) (*LinkDetails, error) {
	link, err := s.linkRepo.GetLinkByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	targets, err := s.targetRepo.ListTargets(ctx, link.ID, s.targetCap)
	if err != nil {
		return nil, err
	}

	return &LinkDetails{Link: link, Targets: targets}, nil
}
