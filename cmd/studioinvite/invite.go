package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/aliuyar1234/studioinvite/internal/app"
	"github.com/aliuyar1234/studioinvite/internal/apperrors"
	"github.com/aliuyar1234/studioinvite/internal/audit"
	"github.com/aliuyar1234/studioinvite/internal/config"
	"github.com/aliuyar1234/studioinvite/internal/invite"
	"github.com/aliuyar1234/studioinvite/internal/prompt"
	"github.com/aliuyar1234/studioinvite/internal/resolve"
	"github.com/aliuyar1234/studioinvite/internal/roster"
	"github.com/aliuyar1234/studioinvite/internal/studio"
	"github.com/aliuyar1234/studioinvite/internal/validation"
)

type inviteFlags struct {
	org      string
	project  string
	csv      string
	auditLog string
}

func parseInviteFlags(name string, args []string, withCSV, withProject bool) (inviteFlags, int, bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var f inviteFlags
	fs.StringVar(&f.org, "org", "", "Organization ID (defaults to EDGEIMPULSE_ORG_ID)")
	fs.StringVar(&f.auditLog, "audit-log", "", "Append JSON audit events to this file (defaults to EDGEIMPULSE_AUDIT_LOG)")
	if withCSV {
		fs.StringVar(&f.csv, "csv", "", "CSV file with columns email, role, datasets")
	}
	if withProject {
		fs.StringVar(&f.project, "project", "", "Project ID (defaults to EDGEIMPULSE_PROJECT_ID)")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return f, apperrors.ExitOK, false
		}
		return f, apperrors.ExitUsage, false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return f, apperrors.ExitUsage, false
	}
	if withCSV && strings.TrimSpace(f.csv) == "" {
		fmt.Fprintln(os.Stderr, "--csv is required")
		return f, apperrors.ExitUsage, false
	}
	return f, 0, true
}

// setup loads configuration with flag overrides applied and builds the app.
func setup(f inviteFlags) (*app.App, int) {
	cfg, err := config.LoadWith(config.Overrides{
		OrganizationID: f.org,
		ProjectID:      f.project,
		AuditLogPath:   f.auditLog,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return nil, apperrors.ExitCode(err)
	}

	a, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		return nil, apperrors.ExitCode(err)
	}
	return a, 0
}

func askID(p *prompt.Prompter, value, label string) (string, error) {
	id, err := p.Default(value, label)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
	}
	id = validation.NormalizeID(id)
	if err := validation.ValidateID(id); err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperrors.ErrInvalidConfig, strings.TrimSuffix(label, ": "), err)
	}
	return id, nil
}

func runInviteOrg(args []string, stdout io.Writer) int {
	f, code, ok := parseInviteFlags("invite-org", args, true, false)
	if !ok {
		return code
	}

	records, err := roster.ReadFile(f.csv, roster.DefaultLimits())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", f.csv, err)
		return apperrors.ExitFailure
	}

	a, code := setup(f)
	if a == nil {
		return code
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	p := prompt.NewTerminal()
	orgID, err := askID(p, a.Config.OrganizationID, "Organization ID: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return apperrors.ExitCode(err)
	}

	sess, err := a.Login(ctx, p)
	if err != nil {
		log.Error().Err(err).Msg("Login failed")
		return apperrors.ExitCode(err)
	}

	log.Info().Str("org_id", orgID).Int("records", len(records)).Str("file", f.csv).Msg("Inviting organization members")
	return runBatch(ctx, a, sess, invite.Target{OrgID: orgID}, records, stdout)
}

func runInviteProject(args []string, stdout io.Writer) int {
	f, code, ok := parseInviteFlags("invite-project", args, false, true)
	if !ok {
		return code
	}

	a, code := setup(f)
	if a == nil {
		return code
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	p := prompt.NewTerminal()
	orgID, err := askID(p, a.Config.OrganizationID, "Organization ID: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return apperrors.ExitCode(err)
	}
	projectID, err := askID(p, a.Config.ProjectID, "Project ID: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return apperrors.ExitCode(err)
	}

	sess, err := a.Login(ctx, p)
	if err != nil {
		log.Error().Err(err).Msg("Login failed")
		return apperrors.ExitCode(err)
	}

	members, err := resolve.Members(ctx, a.Client, sess, orgID)
	if err != nil {
		log.Error().Err(err).Str("org_id", orgID).Msg("Could not fetch organization members")
		return apperrors.ExitCode(err)
	}

	records := make([]invite.Record, 0, len(members))
	for _, m := range members {
		records = append(records, invite.Record(m))
	}

	log.Info().Str("org_id", orgID).Str("project_id", projectID).Int("members", len(records)).Msg("Inviting organization members to project")
	return runBatch(ctx, a, sess, invite.Target{OrgID: orgID, ProjectID: projectID}, records, stdout)
}

func runBatch(ctx context.Context, a *app.App, sess studio.Session, target invite.Target, records []invite.Record, stdout io.Writer) int {
	runner := invite.NewRunner(
		invite.NewNormalizer(a.Client, target),
		invite.NewSubmitter(a.Client, target),
		a.Audit,
	)

	summary, err := runner.Run(ctx, sess, records)
	audit.WriteSummary(stdout, summary, a.Audit.Events())
	if err != nil {
		log.Warn().Err(err).Msg("Batch interrupted")
	}
	return apperrors.ExitCode(err)
}
