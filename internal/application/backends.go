package application

import (
	"context"

	"home-automation/internal/domain"
	"home-automation/internal/infra/homeassistant"
)

// PlatformAPI is the managed platform service, the primary backend for every
// automation operation.
type PlatformAPI interface {
	ListAutomations(ctx context.Context) ([]domain.AutomationSummary, error)
	CreateAutomation(ctx context.Context, cfg homeassistant.AutomationConfig) error
	UpdateAutomation(ctx context.Context, id string, cfg homeassistant.AutomationConfig) error
	DeleteAutomation(ctx context.Context, id string) error
	SetAutomationEnabled(ctx context.Context, id string, enabled bool) error
}

// HubAPI is a direct connection to the user's hub, used only as the fallback
// when the platform call fails.
type HubAPI interface {
	States(ctx context.Context) ([]homeassistant.Entity, error)
	CallService(ctx context.Context, domain, service string, data map[string]any) error
	UpsertAutomation(ctx context.Context, id string, cfg homeassistant.AutomationConfig) error
	DeleteAutomation(ctx context.Context, id string) error
}
