package cli

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/zkvault/internal/client/models"
	"github.com/dmitrijs2005/zkvault/internal/client/services"
)

func (a *App) RegisterJob(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Job type name", a.out)
	if err != nil {
		return err
	}
	version, err := GetSimpleText(a.reader, "Version (optional)", a.out)
	if err != nil {
		return err
	}
	description, err := GetSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	if err := a.jobs.RegisterJobType(models.JobDefinition{Name: name, Version: version, Description: description}); err != nil {
		return err
	}
	a.printf("Job type %s registered\n", name)
	return nil
}

func (a *App) SubmitJob(ctx context.Context) error {
	km, err := a.keyMaterial()
	if err != nil {
		return err
	}
	jobType, err := GetSimpleText(a.reader, "Job type", a.out)
	if err != nil {
		return err
	}
	input, err := a.readJSON("Job input (JSON)")
	if err != nil {
		return err
	}

	res, err := a.jobs.SubmitJob(ctx, services.SubmitJobParams{JobType: jobType, Owner: a.owner, Input: input, Key: km}, a.wallet)
	if err != nil {
		return err
	}

	a.printf("Job id:     %s\nCommitment: %s\n", res.JobID, res.Commitment)
	if res.Signature != "" {
		a.printf("Signature:  %s\n", res.Signature)
	}
	if res.NotifyErr != nil {
		a.printf("Warning: coordinator was not notified: %v\n", res.NotifyErr)
	}
	return nil
}

func jobIDArg(args []string, usage string) (string, error) {
	if len(args) == 0 {
		return "", errors.New(usage)
	}
	return args[0], nil
}

func (a *App) Status(ctx context.Context, args []string) error {
	id, err := jobIDArg(args, "usage: status <job-id>")
	if err != nil {
		return err
	}
	status, err := a.jobs.GetJobStatus(ctx, id)
	if err != nil {
		return err
	}
	a.printf("%s\n", status)
	return nil
}

func (a *App) Result(ctx context.Context, args []string) error {
	id, err := jobIDArg(args, "usage: result <job-id>")
	if err != nil {
		return err
	}
	km, err := a.keyMaterial()
	if err != nil {
		return err
	}

	var result any
	if err := a.jobs.FetchResult(ctx, id, km, &result); err != nil {
		return err
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	a.printf("%s\n", out)
	return nil
}

// Complete stores a result for a locally recorded job, standing in for a
// coordinator.
func (a *App) Complete(ctx context.Context, args []string) error {
	id, err := jobIDArg(args, "usage: complete <job-id>")
	if err != nil {
		return err
	}
	km, err := a.keyMaterial()
	if err != nil {
		return err
	}
	value, err := a.readJSON("Result (JSON)")
	if err != nil {
		return err
	}

	if err := a.jobs.SetMockResult(ctx, id, value, km); err != nil {
		return err
	}
	a.printf("Job %s completed\n", id)
	return nil
}

func (a *App) ListJobs(ctx context.Context) error {
	if a.owner == "" {
		return errLocked
	}
	list, err := a.jobs.ListJobs(ctx, a.owner)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.printf("No jobs\n")
		return nil
	}
	for _, j := range list {
		a.printf("%s  %-9s  %-12s  %s\n", j.ID, j.Status, j.JobType, j.CreatedAt.Local().Format(time.DateTime))
	}
	return nil
}
