// Package application orchestrates automation operations across the two
// backends: the managed platform first, then a direct hub call when the
// platform is unreachable and a hub connection is configured. The platform
// attempt and the fallback are strictly sequential; running them in parallel
// could double-write an automation onto two backends with divergent ids.
package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"home-automation/internal/compiler"
	"home-automation/internal/domain"
	"home-automation/internal/infra/homeassistant"
)

// Outcome is the result of a best-effort write (delete / enable-disable).
// When no backend handled the write, Handled is false and Cause carries the
// original platform error; the caller owns the retry or surface decision.
type Outcome struct {
	Handled bool
	Cause   error
}

// Service is a stateless request/response façade; its methods are safe to
// call concurrently. Overlapping writes for the same automation id are a
// caller-level race and are not serialized here.
type Service struct {
	platform PlatformAPI
	newHub   func(baseURL, token string) HubAPI
	logger   *slog.Logger
}

func NewService(platform PlatformAPI, logger *slog.Logger) *Service {
	return &Service{
		platform: platform,
		newHub: func(baseURL, token string) HubAPI {
			return homeassistant.NewClient(baseURL, token)
		},
		logger: logger,
	}
}

// NewServiceWithHubFactory lets tests and embedders substitute the hub
// client construction.
func NewServiceWithHubFactory(platform PlatformAPI, newHub func(baseURL, token string) HubAPI, logger *slog.Logger) *Service {
	return &Service{platform: platform, newHub: newHub, logger: logger}
}

// List returns automation summaries from the platform, or, when the platform
// fails and a hub is reachable, summaries derived from the hub's entity
// snapshot. A failed fallback re-surfaces the original platform error, never
// the fallback's own.
func (s *Service) List(ctx context.Context, conn *HubConnection, mode Mode) ([]domain.AutomationSummary, error) {
	summaries, platformErr := s.platform.ListAutomations(ctx)
	if platformErr == nil {
		return summaries, nil
	}

	hub, ok := s.hub(conn, mode)
	if !ok {
		return nil, platformErr
	}

	s.logger.Warn("platform list failed, falling back to hub", "error", platformErr)

	entities, err := hub.States(ctx)
	if err != nil {
		return nil, platformErr
	}

	return summariesFromStates(entities), nil
}

// Create compiles the draft and creates it on the platform, falling back to
// an upsert of the compiled config on the hub.
func (s *Service) Create(ctx context.Context, conn *HubConnection, mode Mode, draft domain.AutomationDraft) error {
	cfg, err := compileDraft(draft)
	if err != nil {
		return err
	}

	platformErr := s.platform.CreateAutomation(ctx, cfg)
	if platformErr == nil {
		return nil
	}

	return s.upsertFallback(ctx, conn, mode, draft, cfg, platformErr)
}

// Update compiles the draft identically to Create; both lower to the same
// hub upsert, so replaying either is safe.
func (s *Service) Update(ctx context.Context, conn *HubConnection, mode Mode, draft domain.AutomationDraft) error {
	cfg, err := compileDraft(draft)
	if err != nil {
		return err
	}

	platformErr := s.platform.UpdateAutomation(ctx, configID(draft), cfg)
	if platformErr == nil {
		return nil
	}

	return s.upsertFallback(ctx, conn, mode, draft, cfg, platformErr)
}

func (s *Service) upsertFallback(ctx context.Context, conn *HubConnection, mode Mode, draft domain.AutomationDraft, cfg homeassistant.AutomationConfig, platformErr error) error {
	hub, ok := s.hub(conn, mode)
	if !ok {
		return platformErr
	}

	s.logger.Warn("platform write failed, falling back to hub", "error", platformErr)

	if err := hub.UpsertAutomation(ctx, configID(draft), cfg); err != nil {
		return platformErr
	}
	return nil
}

// Delete is best-effort: when neither backend handles it, the outcome defers
// the error decision to the caller instead of raising a transport error.
func (s *Service) Delete(ctx context.Context, conn *HubConnection, mode Mode, id string) Outcome {
	platformErr := s.platform.DeleteAutomation(ctx, id)
	if platformErr == nil {
		return Outcome{Handled: true}
	}

	hub, ok := s.hub(conn, mode)
	if !ok {
		return Outcome{Cause: platformErr}
	}

	s.logger.Warn("platform delete failed, falling back to hub", "error", platformErr)

	if err := hub.DeleteAutomation(ctx, id); err != nil {
		return Outcome{Cause: platformErr}
	}
	return Outcome{Handled: true}
}

// SetEnabled toggles an automation, falling back to the hub's automation
// turn_on/turn_off services. Best-effort, same contract as Delete.
func (s *Service) SetEnabled(ctx context.Context, conn *HubConnection, mode Mode, id string, enabled bool) Outcome {
	platformErr := s.platform.SetAutomationEnabled(ctx, id, enabled)
	if platformErr == nil {
		return Outcome{Handled: true}
	}

	hub, ok := s.hub(conn, mode)
	if !ok {
		return Outcome{Cause: platformErr}
	}

	s.logger.Warn("platform toggle failed, falling back to hub", "error", platformErr)

	service := "turn_off"
	if enabled {
		service = "turn_on"
	}
	data := map[string]any{"entity_id": automationEntityID(id)}

	if err := hub.CallService(ctx, "automation", service, data); err != nil {
		return Outcome{Cause: platformErr}
	}
	return Outcome{Handled: true}
}

func (s *Service) hub(conn *HubConnection, mode Mode) (HubAPI, bool) {
	baseURL, ok := conn.ResolveURL(mode)
	if !ok {
		return nil, false
	}
	return s.newHub(baseURL, conn.Token), true
}

// compileDraft validates and compiles a draft. Drafts that lower to no
// trigger and no gate, or to an empty action list, are rejected before any
// network call.
func compileDraft(d domain.AutomationDraft) (homeassistant.AutomationConfig, error) {
	if err := domain.Validate(d); err != nil {
		return homeassistant.AutomationConfig{}, err
	}

	cfg := compiler.Compile(d)

	if len(cfg.Trigger) == 0 && !d.HasTimeGate() {
		return homeassistant.AutomationConfig{}, &domain.ValidationError{Reason: "no usable trigger"}
	}
	if len(cfg.Action) == 0 {
		return homeassistant.AutomationConfig{}, &domain.ValidationError{Reason: "no resolvable action"}
	}

	return cfg, nil
}

// configID keys the hub's config-by-id upsert: the draft id, else the alias,
// else a generated id for brand-new automations with neither.
func configID(d domain.AutomationDraft) string {
	if d.ID != "" {
		return d.ID
	}
	if d.Alias != "" {
		return d.Alias
	}
	return uuid.NewString()
}

func automationEntityID(id string) string {
	if strings.HasPrefix(id, "automation.") {
		return id
	}
	return "automation." + id
}

// summariesFromStates filters the hub snapshot to automation entities and
// maps them onto the summary shape. The compiled native form is not meant to
// be decompiled, so hub-derived summaries carry no trigger/action text.
func summariesFromStates(entities []homeassistant.Entity) []domain.AutomationSummary {
	summaries := make([]domain.AutomationSummary, 0)
	for _, e := range entities {
		if !strings.HasPrefix(e.EntityID, "automation.") {
			continue
		}

		id := e.EntityID
		if v, ok := e.Attributes["id"].(string); ok && v != "" {
			id = v
		}

		alias := e.EntityID
		if v, ok := e.Attributes["friendly_name"].(string); ok && v != "" {
			alias = v
		}

		description := ""
		if v, ok := e.Attributes["description"].(string); ok {
			description = v
		}

		summaries = append(summaries, domain.AutomationSummary{
			ID:          id,
			Alias:       alias,
			Description: description,
			Enabled:     strings.ToLower(e.State) != "off",
		})
	}
	return summaries
}
