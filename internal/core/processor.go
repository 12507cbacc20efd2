package core

import (
	"context"
	"errors"
	"time"

	"lifeplan_agent/internal/logger"
	"lifeplan_agent/internal/response"
	"lifeplan_agent/pkg"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// job describes one plan request for run
type job[P pkg.Plan] struct {
	kind     pkg.PlanKind
	input    string // recorded in short-term memory
	timeout  time.Duration
	build    func(ctx context.Context) ([]*schema.Message, error)
	parse    func(candidate string) (P, bool, error)
	fallback func() P
}

// run drives a request through the stages and always ends in Done with a usable plan
func run[P pkg.Plan](ctx context.Context, e *Engine, j job[P]) pkg.Result[P] {
	started := e.now()
	log := logger.Get().With().
		Str("request_id", uuid.NewString()).
		Str("kind", string(j.kind)).
		Logger()

	var path []Stage
	enter := func(s Stage) {
		path = append(path, s)
		log.Debug().Str("stage", string(s)).Msg("entering stage")
	}

	finish := func(plan P, origin pkg.Origin, reason string, attempts int) pkg.Result[P] {
		enter(StageDone)
		e.archive(ctx, log, plan)
		elapsed := e.now().Sub(started)
		e.metrics.RecordPlan(string(j.kind), string(origin), attempts, elapsed)

		stages := make([]string, len(path))
		for i, s := range path {
			stages[i] = string(s)
		}
		log.Info().
			Str("origin", string(origin)).
			Str("reason", reason).
			Int("attempts", attempts).
			Strs("execution_path", stages).
			Dur("elapsed", elapsed).
			Msg("plan request completed")
		return pkg.Result[P]{Plan: plan, Origin: origin, Reason: reason, Attempts: attempts}
	}

	fallback := func(reason string, attempts int, err error) pkg.Result[P] {
		enter(StageFallback)
		log.Warn().Err(err).Str("reason", reason).Msg("using fallback plan")
		e.metrics.RecordFallback(string(j.kind), reason)
		return finish(j.fallback(), pkg.OriginFallback, reason, attempts)
	}

	enter(StageRequesting)
	msgs, err := j.build(ctx)
	if err != nil {
		return fallback(ReasonPrompt, 0, err)
	}

	enter(StageAwaitingResponse)
	resp := e.client.Call(ctx, msgs, j.timeout)
	if resp.Err != nil {
		reason := ReasonExhausted
		if ctx.Err() != nil {
			reason = ReasonCancelled
		}
		return fallback(reason, resp.Attempts, resp.Err)
	}

	if e.store != nil {
		if err := e.store.RecordExchange(ctx, j.input, resp.Text); err != nil {
			log.Warn().Err(err).Msg("failed to record exchange")
		}
	}

	enter(StageSanitizing)
	candidate, err := response.Extract(resp.Text, j.kind)
	if err != nil {
		return fallback(ReasonOversize, resp.Attempts, err)
	}

	enter(StageParsing)
	plan, repaired, err := j.parse(candidate)
	if repaired {
		enter(StageRepairing)
		var perr *response.ParseError
		e.metrics.RecordRepair(string(j.kind), !errors.As(err, &perr))
	}
	if err != nil {
		var verr *response.ValidationError
		if errors.As(err, &verr) {
			return fallback(ReasonValidation, resp.Attempts, err)
		}
		return fallback(ReasonParse, resp.Attempts, err)
	}
	enter(StageValidating)

	return finish(plan, pkg.OriginSynthesized, "", resp.Attempts)
}

// archive stores the plan in long-term memory. Failures are logged only.
func (e *Engine) archive(ctx context.Context, log zerolog.Logger, plan pkg.Plan) {
	if e.store == nil || !e.autoArchive {
		return
	}
	if err := e.store.Archive(ctx, plan, nil); err != nil {
		e.metrics.RecordArchiveFailure()
		log.Error().Err(err).Msg("failed to archive plan")
	}
}
