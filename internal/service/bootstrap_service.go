package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gousero-sin/LifeLogAi/internal/model"
)

const bootstrapEntries = 30

// Bootstrap is everything the client needs on first load.
type Bootstrap struct {
	User     *model.User           `json:"user"`
	Tags     []model.Tag           `json:"tags"`
	Settings *model.SettingsView   `json:"settings"`
	Stats    *model.DashboardStats `json:"stats"`
	Entries  []model.Entry         `json:"entries"`
}

// BootstrapServiceInterface defines the initial-load aggregate.
type BootstrapServiceInterface interface {
	Load(ctx context.Context, userID uint) (*Bootstrap, error)
}

// BootstrapService implements BootstrapServiceInterface.
type BootstrapService struct {
	Auth      AuthServiceInterface
	Tags      TagServiceInterface
	Settings  SettingsServiceInterface
	Dashboard DashboardServiceInterface
	Entries   EntryServiceInterface
}

// NewBootstrapService creates a new BootstrapService.
func NewBootstrapService(authSvc AuthServiceInterface, tags TagServiceInterface, settings SettingsServiceInterface, dashboard DashboardServiceInterface, entries EntryServiceInterface) BootstrapServiceInterface {
	return &BootstrapService{Auth: authSvc, Tags: tags, Settings: settings, Dashboard: dashboard, Entries: entries}
}

// Load fetches the parts concurrently. The first failure cancels the rest
// and is returned.
func (s *BootstrapService) Load(ctx context.Context, userID uint) (*Bootstrap, error) {
	var out Bootstrap
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.User, err = s.Auth.GetUser(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		out.Tags, err = s.Tags.ListTags(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		out.Settings, err = s.Settings.GetSettings(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		out.Stats, err = s.Dashboard.GetStats(ctx, userID, DefaultPeriod)
		return err
	})
	g.Go(func() (err error) {
		out.Entries, _, err = s.Entries.ListEntries(ctx, userID, model.EntryFilter{Limit: bootstrapEntries})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
