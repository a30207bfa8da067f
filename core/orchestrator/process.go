package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/adalundhe/kindred/agents/guardian"
	"github.com/adalundhe/kindred/agents/pimentor"
	"github.com/adalundhe/kindred/agents/scribe"
	"github.com/adalundhe/kindred/agents/vent"
	"github.com/adalundhe/kindred/core/intent"
	"github.com/adalundhe/kindred/core/llm"
)

const (
	// ConfigIssueText is shown when a credential problem is detected,
	// since retrying cannot help and the raw error would leak config
	// detail.
	ConfigIssueText = "I'm experiencing a configuration issue. Please check the backend logs for details."

	// NoMatchesText is shown in explicit matchmaker mode when nothing
	// cleared the similarity threshold.
	NoMatchesText = "I couldn't find any matching peers for your message. Try rephrasing or sharing more details about your research journey."

	// ApologyText is the last-resort reply when processing panics.
	ApologyText = "I'm sorry, something went wrong on my end. Please try again."

	historyLimit = 10
)

// ProcessMessage routes a message through the agent roster and returns
// the assembled envelope. sessionID may be empty for stateless use;
// mode selects an explicit agent or auto routing.
func (o *Orchestrator) ProcessMessage(ctx context.Context, sessionID, message string, mode intent.AgentMode, forceMatchmaker bool) (env *Envelope) {
	env = newEnvelope()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("panic while processing message", "panic", r)
			env = newEnvelope()
			env.MainResponse = ApologyText
		}
	}()

	history, sessionContext := o.loadSession(ctx, sessionID)

	switch mode {
	case intent.ModeVent:
		o.runVent(ctx, env, message, history)
		o.captureStruggle(ctx, message, sessionContext, intent.IntentEmotional)
	case intent.ModeMatchmaker:
		o.runMatchmaker(ctx, env, message)
		o.captureStruggle(ctx, message, sessionContext, intent.IntentEmotional)
	case intent.ModePI:
		o.runMentor(ctx, env, message, history)
	case intent.ModeScribe:
		o.runScribe(ctx, env, message, history)
	default:
		o.runAuto(ctx, env, message, history, sessionContext, forceMatchmaker)
	}

	o.recordTurn(ctx, sessionID, message, env)
	return env
}

// runAuto is the three-pass flow: primary routing, peer matching, then
// a shareable-content check.
func (o *Orchestrator) runAuto(ctx context.Context, env *Envelope, message string, history []llm.Message, sessionContext map[string]any, forceMatchmaker bool) {
	result := o.classifier.Classify(ctx, message)
	routed := intent.AgentModeFor(result.Intent)
	o.logger.Info("detected intent",
		"intent", result.Intent,
		"confidence", result.Confidence,
		"routing_to", routed,
	)

	switch routed {
	case intent.ModePI:
		o.runMentor(ctx, env, message, history)
	case intent.ModeScribe:
		o.runScribeMain(ctx, env, message, history)
	default:
		o.runVent(ctx, env, message, history)
	}

	isEmotional := result.Intent == intent.IntentEmotional ||
		forceMatchmaker ||
		o.matchmaker.IsEmotionalStruggle(message)
	if isEmotional {
		o.logger.Info("running peer matching for emotional struggle")
		outcome := o.matchmaker.Process(ctx, message, forceMatchmaker)

		if outcome.Text != "" {
			env.PeerMatches = outcome.Text
			if len(outcome.Matches) > 0 {
				env.AgentMetadata["matches"] = outcome.Matches
			}
		}

		o.captureStruggle(ctx, message, sessionContext, result.Intent)
	}

	if result.Intent != intent.IntentShareable {
		if draft := o.scribe.Process(ctx, message, history); draft != "" {
			env.SocialDraft = draft

			report := o.guardian.ScanContent(ctx, draft)
			env.GuardianReport = &report
			if report.Blocked {
				env.SocialDraft = draft + guardianAlert(report)
			}
		}
	}
}

func (o *Orchestrator) runVent(ctx context.Context, env *Envelope, message string, history []llm.Message) {
	env.AgentUsed = o.vent.Name()

	response, err := o.vent.Process(ctx, message, history)
	if err != nil {
		env.MainResponse = o.failureText(err, vent.FallbackText)
		return
	}

	env.MainResponse = response.ResponseText
	env.AgentMetadata["emotional_spectrum"] = response.Analysis.EmotionalSpectrum
	env.AgentMetadata["emotional_intensity"] = response.Analysis.EmotionalIntensity
	env.AgentMetadata["grounding_technique"] = response.Analysis.GroundingTechnique
}

func (o *Orchestrator) runMentor(ctx context.Context, env *Envelope, message string, history []llm.Message) {
	env.AgentUsed = o.mentor.Name()

	raw, err := o.mentor.Process(ctx, message, history)
	if err != nil {
		env.MainResponse = o.failureText(err, pimentor.FallbackText)
		return
	}

	parsed := o.parser.Parse(raw)
	env.MainResponse = parsed.CleanText
	for key, value := range parsed.Metadata {
		env.AgentMetadata[key] = value
	}
}

func (o *Orchestrator) runMatchmaker(ctx context.Context, env *Envelope, message string) {
	env.AgentUsed = o.matchmaker.Name()

	outcome := o.matchmaker.Process(ctx, message, true)
	if outcome.Text == "" {
		env.MainResponse = NoMatchesText
		return
	}

	env.MainResponse = outcome.Text
	if len(outcome.Matches) > 0 {
		env.AgentMetadata["matches"] = outcome.Matches
	}
}

// runScribeMain handles scribe output as the primary response,
// including the guardian scan and alert banner.
func (o *Orchestrator) runScribeMain(ctx context.Context, env *Envelope, message string, history []llm.Message) {
	env.AgentUsed = o.scribe.Name()

	draft := o.scribe.Process(ctx, message, history)
	if draft == "" {
		env.MainResponse = scribe.UnavailableText
		return
	}

	env.MainResponse = draft

	report := o.guardian.ScanContent(ctx, draft)
	env.GuardianReport = &report
	if report.Blocked {
		env.MainResponse = draft + guardianAlert(report)
	}
}

func (o *Orchestrator) runScribe(ctx context.Context, env *Envelope, message string, history []llm.Message) {
	o.runScribeMain(ctx, env, message, history)
}

func guardianAlert(report guardian.Report) string {
	return fmt.Sprintf(
		"\n\n⚠️ **Guardian Alert:** %s risk detected. Concerns: %s",
		report.RiskLevel,
		strings.Join(report.Concerns, ", "),
	)
}

// failureText converts an agent error into user-facing text.
// Credential problems get the configuration message; anything else
// falls back to the agent's canned line.
func (o *Orchestrator) failureText(err error, fallback string) string {
	if llm.IsAuthError(err) || strings.Contains(strings.ToLower(err.Error()), "gemini") {
		o.logger.Error("credential issue detected", "error", err)
		return ConfigIssueText
	}
	return fallback
}

// loadSession fetches recent history and the session context map.
// Missing sessions degrade to empty values.
func (o *Orchestrator) loadSession(ctx context.Context, sessionID string) ([]llm.Message, map[string]any) {
	if o.sessions == nil || sessionID == "" {
		return nil, nil
	}

	var history []llm.Message
	messages, err := o.sessions.History(ctx, sessionID, historyLimit)
	if err != nil {
		o.logger.Warn("could not load session history", "session_id", sessionID, "error", err)
	} else {
		for _, msg := range messages {
			role := llm.RoleUser
			if msg.Role == "assistant" {
				role = llm.RoleAssistant
			}
			history = append(history, llm.Message{Role: role, Content: msg.Content})
		}
	}

	sess, err := o.sessions.Get(ctx, sessionID)
	if err != nil {
		return history, nil
	}
	return history, sess.Context
}

// recordTurn appends the user message and the assembled reply to the
// session.
func (o *Orchestrator) recordTurn(ctx context.Context, sessionID, message string, env *Envelope) {
	if o.sessions == nil || sessionID == "" {
		return
	}

	if err := o.sessions.AppendMessage(ctx, sessionID, "user", message, ""); err != nil {
		o.logger.Warn("could not record user turn", "session_id", sessionID, "error", err)
		return
	}
	if err := o.sessions.AppendMessage(ctx, sessionID, "assistant", env.MainResponse, env.AgentUsed); err != nil {
		o.logger.Warn("could not record assistant turn", "session_id", sessionID, "error", err)
	}
}
