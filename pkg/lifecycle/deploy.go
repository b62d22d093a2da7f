package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

const (
	StepUpgrade        = "upgrade"
	StepInsertRoles    = "insert-roles"
	StepAddSelfFollows = "add-self-follows"
)

// Step is one deployment task.
type Step struct {
	Name string
	// Run performs the task and returns a short summary of what changed.
	Run func(context.Context) (string, error)
}

// StepResult describes a finished step.
type StepResult struct {
	Name     string
	Summary  string
	Duration time.Duration
}

// Deployer runs deployment tasks of the application.
type Deployer struct {
	schema SchemaManager
	seeder Seeder
}

// NewDeployer creates a Deployer from the migration engine and the
// seeder of a connected application.
func NewDeployer(sm SchemaManager, s Seeder) *Deployer {
	return &Deployer{schema: sm, seeder: s}
}

// Steps returns deployment tasks in the order they must run:
// schema upgrade, role seeding, self-follow backfill.
func (d *Deployer) Steps() []Step {
	return []Step{
		{Name: StepUpgrade, Run: d.upgrade},
		{Name: StepInsertRoles, Run: d.insertRoles},
		{Name: StepAddSelfFollows, Run: d.addSelfFollows},
	}
}

// Deploy runs all steps sequentially. The first failing step stops the
// sequence; steps that already succeeded are not reverted, so every
// step must be safe to re-run.
func (d *Deployer) Deploy(ctx context.Context) ([]StepResult, error) {
	steps := d.Steps()
	res := make([]StepResult, 0, len(steps))
	for i, v := range steps {
		if err := ctx.Err(); err != nil {
			return res, StepError(v.Name, err)
		}
		gn.Info("[%d/%d] Running <em>%s</em>...", i+1, len(steps), v.Name)
		start := time.Now()
		summary, err := v.Run(ctx)
		dur := time.Since(start)
		if err != nil {
			slog.Error("Deploy step failed", "step", v.Name, "error", err)
			return res, StepError(v.Name, err)
		}
		res = append(res, StepResult{
			Name:     v.Name,
			Summary:  summary,
			Duration: dur,
		})
		slog.Info("Deploy step finished",
			"step", v.Name,
			"summary", summary,
			"duration", gnfmt.TimeString(dur.Seconds()),
		)
		gn.Info("%s (%s)", summary, gnfmt.TimeString(dur.Seconds()))
	}
	return res, nil
}

func (d *Deployer) upgrade(ctx context.Context) (string, error) {
	n, err := d.schema.Upgrade(ctx)
	if err != nil {
		return "", err
	}
	cur, err := d.schema.Current(ctx)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return fmt.Sprintf("Schema is up to date at %s", cur), nil
	}
	return fmt.Sprintf("Applied %d revision(s), schema is at %s", n, cur), nil
}

func (d *Deployer) insertRoles(ctx context.Context) (string, error) {
	n, err := d.seeder.InsertRoles(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Roles are up to date (%d)", n), nil
}

func (d *Deployer) addSelfFollows(ctx context.Context) (string, error) {
	n, err := d.seeder.AddSelfFollows(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Added %s self-follow(s)", humanize.Comma(n)), nil
}
