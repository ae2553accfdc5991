// Package syncer compares the desired agent configuration built from a
// client record against the live Ultravox template and pushes the
// difference. One pass over the selected records, strictly sequential,
// no retries.
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"voicesync/internal/clients"
	"voicesync/internal/render"
	"voicesync/internal/tools"
	"voicesync/internal/trace"
	"voicesync/internal/ultravox"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// ErrNoClients is returned when the filter matched nothing; an empty
// run is a failed run.
var ErrNoClients = errors.New("no clients found matching criteria")

type ClientStore interface {
	List(ctx context.Context, f clients.Filter) ([]clients.Client, error)
	MarkSynced(ctx context.Context, id string, at time.Time) error
}

type Platform interface {
	FetchAgent(ctx context.Context, agentID string) (*ultravox.Agent, bool, error)
	UpdateAgent(ctx context.Context, agentID string, upd ultravox.AgentUpdate) (*ultravox.Agent, error)
}

type Options struct {
	// DryRun reports diffs without writing to the platform or storage.
	DryRun bool
	// DefaultVoice is used when a client record has no voice set.
	DefaultVoice string
}

type Syncer struct {
	store        ClientStore
	platform     Platform
	builder      *tools.Builder
	out          *render.Writer
	dryRun       bool
	defaultVoice string
	now          func() time.Time
}

func New(store ClientStore, platform Platform, builder *tools.Builder, out *render.Writer, opts Options) *Syncer {
	voice := opts.DefaultVoice
	if voice == "" {
		voice = "Jessica"
	}
	return &Syncer{
		store:        store,
		platform:     platform,
		builder:      builder,
		out:          out,
		dryRun:       opts.DryRun,
		defaultVoice: voice,
		now:          time.Now,
	}
}

// Run syncs every client matching the filter and reports the totals.
// Per-record failures are tallied, never propagated; the returned error
// covers only run-level failures (storage unavailable, empty selection).
func (s *Syncer) Run(ctx context.Context, f clients.Filter) (Totals, error) {
	list, err := s.store.List(ctx, f)
	if err != nil {
		return Totals{}, err
	}
	if len(list) == 0 {
		return Totals{}, ErrNoClients
	}

	s.out.Println("Found %d client(s) to sync", len(list))

	var totals Totals
	for _, c := range list {
		totals.add(s.syncClient(ctx, c))
	}

	s.summary(totals)
	return totals, nil
}

func (s *Syncer) syncClient(ctx context.Context, c clients.Client) Outcome {
	ctx, span := trace.Tracer().Start(ctx, "syncClient",
		oteltrace.WithAttributes(attribute.String("client.name", c.Name)))
	defer span.End()

	if c.UltravoxAgentID == "" {
		s.out.Warn("%s: no ultravox_agent_id configured", c.Name)
		return Skipped("no_agent_id")
	}
	if c.SystemPrompt == "" {
		s.out.Warn("%s: no system_prompt in database", c.Name)
		return Skipped("no_system_prompt")
	}

	voice := c.AgentVoice
	if voice == "" {
		voice = s.defaultVoice
	}

	prefix := ""
	if s.dryRun {
		prefix = "[DRY RUN] "
	}
	s.out.Line()
	s.out.Println("%sSyncing %s...", prefix, c.Name)
	s.out.Item("Agent ID: %s", c.UltravoxAgentID)
	s.out.Item("Voice: %s", voice)
	s.out.Item("Prompt length: %d chars", len(c.SystemPrompt))

	agent, found, err := s.platform.FetchAgent(ctx, c.UltravoxAgentID)
	if err != nil {
		span.RecordError(err)
		s.out.Error("%v", err)
		return Errorf("%v", err)
	}
	if !found {
		s.out.Error("agent %s not found in Ultravox", c.UltravoxAgentID)
		return Errorf("agent_not_found")
	}

	desired := s.builder.Build(c.SystemPrompt, c.CorpusID, c.CorpusMaxResults)

	remote := agent.CallTemplate
	promptChanged := remote.SystemPrompt != c.SystemPrompt
	voiceChanged := remote.Voice != voice
	toolsChanged := !ultravox.SelectedToolsEqual(remote.SelectedTools, desired)

	if !promptChanged && !voiceChanged && !toolsChanged {
		s.out.Success("already in sync")
		return Outcome{Status: StatusAlreadySynced}
	}

	if promptChanged {
		s.out.Item("prompt changed (%d → %d chars)", len(remote.SystemPrompt), len(c.SystemPrompt))
	}
	if voiceChanged {
		s.out.Item("voice changed (%s → %s)", remote.Voice, voice)
	}
	if toolsChanged {
		s.out.Item("tools changed (%d → %d tools)", len(remote.SelectedTools), len(desired))
	}

	if s.dryRun {
		s.out.Item("[DRY RUN] would update agent template")
		return Outcome{Status: StatusWouldUpdate}
	}

	upd := ultravox.AgentUpdate{
		SystemPrompt: c.SystemPrompt,
		Voice:        voice,
	}
	// Leave the remote tool selection alone unless it actually differs.
	if toolsChanged {
		upd.SelectedTools = desired
	}

	if _, err := s.platform.UpdateAgent(ctx, c.UltravoxAgentID, upd); err != nil {
		span.RecordError(err)
		s.out.Error("%v", err)
		return Errorf("%v", err)
	}

	// The remote update already landed; a write-back failure is worth a
	// warning but does not fail the record.
	if err := s.store.MarkSynced(ctx, c.ID, s.now()); err != nil {
		slog.Warn("synced to Ultravox but failed to update database",
			"client", c.Name, "error", err)
		s.out.Warn("synced to Ultravox but failed to update database: %v", err)
		return Outcome{Status: StatusUpdated}
	}

	s.out.Success("synced and marked as synced in database")
	return Outcome{Status: StatusUpdated}
}

func (s *Syncer) summary(t Totals) {
	s.out.Line()
	s.out.Header("SUMMARY")
	if s.dryRun {
		s.out.Println("Would update: %d", t.WouldUpdate)
	} else {
		s.out.Println("Successfully synced: %d", t.Updated)
	}
	s.out.Println("Already in sync: %d", t.AlreadySynced)
	s.out.Println("Skipped: %d", t.Skipped)
	if t.Errors > 0 {
		s.out.Println("Errors: %d", t.Errors)
	}
}
