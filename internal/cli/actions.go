package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sllm/internal/chat"
	"sllm/internal/manager"
	"sllm/internal/prompts"
)

type source int

const (
	sourceNone source = iota
	sourcePipe
	sourceEditor
	sourceFile
)

// translateSource picks the input of `sllm translate`. A non-terminal stdin
// means piped input unless another source was asked for explicitly.
func translateSource(pipe, edit bool, file string, stdinTTY bool) source {
	switch {
	case pipe:
		return sourcePipe
	case edit:
		return sourceEditor
	case file != "":
		return sourceFile
	case !stdinTTY:
		return sourcePipe
	}
	return sourceNone
}

func (a *App) sanity() error {
	r := a.Lifecycle.SanityCheck()
	if r.Error != "" {
		return errors.New(r.Error)
	}
	return nil
}

func (a *App) runInit(ctx context.Context) error {
	if err := a.sanity(); err != nil {
		return err
	}
	return a.Lifecycle.EnsureRuntimeDownloaded(ctx)
}

func (a *App) runStart(ctx context.Context) error {
	if err := a.sanity(); err != nil {
		return err
	}
	if err := a.Lifecycle.Ensure(ctx); err != nil {
		return err
	}
	a.printer().Plain(fmt.Sprintf("Server is present at %s.", a.Runtime.BaseURL()))
	return nil
}

const gib = float64(1 << 30)

func (a *App) runStatus(ctx context.Context, asJSON bool) error {
	r := a.Lifecycle.Status(ctx)
	if asJSON {
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		a.printer().Plain(string(b))
		return nil
	}
	if s := a.Lifecycle.SanityCheck(); s.Error != "" {
		a.Log.Warn().Msg(s.Error)
	}
	a.logStatus(r)
	return nil
}

func (a *App) logStatus(r manager.StatusReport) {
	log := a.Log
	switch {
	case r.Runtime.Error != "":
		log.Error().Msgf("Cannot query for runtime: %s", r.Runtime.Error)
	case r.Runtime.Present:
		log.Info().Msgf("Runtime is present (%.2f GB).", float64(r.Runtime.Size)/gib)
	default:
		log.Info().Msg("Runtime is not present.")
	}

	if r.Server.Reachable {
		version := r.Server.Version
		if version == "" {
			version = "unknown"
		}
		log.Info().Msgf("API is present (%s, version %s).", r.Server.URL, version)
	} else {
		log.Info().Msg("HTTP API is not running.")
	}
	if r.Server.Error != "" {
		log.Debug().Str("process", r.Server.Process).Msgf("HTTP API is not well: %s.", r.Server.Error)
	}

	switch {
	case !r.Server.Reachable:
		log.Info().Msg("HTTP API is not running, models not accessible.")
	case r.Model.Error != "":
		log.Info().Msgf("Cannot list models: %s", r.Model.Error)
	case r.Model.Present:
		log.Info().Msgf("Model is present (%s, %.2f GB).", r.Model.Quantization, float64(r.Model.Size)/gib)
	default:
		log.Info().Msg("Model is not present.")
	}

	switch {
	case r.Shutdown.Error != "":
		log.Error().Msgf("Cannot query for timers: %s", r.Shutdown.Error)
	case r.Shutdown.Scheduled && !r.Shutdown.Next.IsZero():
		log.Info().Msgf("Container shutdown is scheduled (%s).", r.Shutdown.Next.Local().Format("2006-01-02 15:04:05"))
	case r.Shutdown.Scheduled:
		log.Info().Msg("Container shutdown is scheduled.")
	default:
		log.Info().Msg("Container shutdown is not scheduled.")
	}
}

// ask ensures the server, echoes the input and sends it with the named prompt.
func (a *App) ask(ctx context.Context, prompt, message, progress string) (string, error) {
	p, err := prompts.Load(prompt, a.Runtime.PromptDir)
	if err != nil {
		return "", err
	}
	if err := a.Lifecycle.Ensure(ctx); err != nil {
		return "", err
	}
	out := a.printer()
	if out.TTY {
		out.Echo(strings.TrimRight(message, "\n"))
	} else {
		a.Log.Debug().Msg("Not in interactive console, omitting input.")
	}
	a.Log.Info().Msg(progress)
	resp, err := a.Chat.Send(ctx, chat.Request{
		Prompt:         p.Text,
		Query:          message,
		InputHeader:    p.InputHeader,
		ResponseHeader: p.ResponseHeader,
		Temperature:    a.Runtime.Temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (a *App) runReview(ctx context.Context, ref, file string) error {
	var message string
	var err error
	if ref != "" {
		message, err = a.readRef(ctx, ref)
	} else {
		message, err = readCommitFile(file)
	}
	if err != nil {
		return err
	}
	if message == "" {
		a.Log.Info().Msg("The message is empty.")
		return nil
	}
	review, err := a.ask(ctx, prompts.Review, message, "Rating...")
	if err != nil {
		return err
	}
	if !a.printer().Review(review) {
		a.Log.Warn().Msg("You should use '--amend' to rewrite the message.")
	}
	return nil
}

func (a *App) runTranslate(ctx context.Context, src source, file string) error {
	var message string
	var err error
	switch src {
	case sourcePipe:
		message, err = readAll(a.Stdin)
	case sourceEditor:
		message, err = a.readEditor(ctx)
	case sourceFile:
		message, err = readFile(file)
	}
	if err != nil {
		return err
	}
	translation, err := a.ask(ctx, prompts.Translate, message, "Translating...")
	if err != nil {
		return err
	}
	a.printer().Plain(translation)
	return nil
}

func (a *App) runCode(ctx context.Context) error {
	signature, err := a.readEditor(ctx)
	if err != nil {
		return err
	}
	snippet, err := a.ask(ctx, prompts.Implement, signature, "Coding...")
	if err != nil {
		return err
	}
	a.printer().Plain(snippet)
	return nil
}
