// Package orchestrator coordinates the specialized agents. A message
// either goes straight to a named agent or through auto mode, which
// runs up to three passes: primary routing by intent, peer matching for
// emotional struggles, and a shareable-content check with a guardian
// scan.
package orchestrator

import (
	"log/slog"

	"github.com/adalundhe/kindred/agents/guardian"
	"github.com/adalundhe/kindred/agents/matchmaker"
	"github.com/adalundhe/kindred/agents/pimentor"
	"github.com/adalundhe/kindred/agents/scribe"
	"github.com/adalundhe/kindred/agents/vent"
	"github.com/adalundhe/kindred/core/extract"
	"github.com/adalundhe/kindred/core/intent"
	"github.com/adalundhe/kindred/core/session"
	"github.com/adalundhe/kindred/core/vectorstore"
)

// Envelope is the orchestrator's response shape. MainResponse is
// always set; the remaining fields fill in depending on which passes
// ran. GuardianReport is present only when a scan actually happened.
type Envelope struct {
	MainResponse   string           `json:"main_response"`
	PeerMatches    string           `json:"peer_matches"`
	SocialDraft    string           `json:"social_draft"`
	GuardianReport *guardian.Report `json:"guardian_report,omitempty"`
	AgentMetadata  map[string]any   `json:"agent_metadata"`
	AgentUsed      string           `json:"agent_used"`
}

// Config holds orchestrator construction settings. Sessions is
// optional; without it conversations are stateless.
type Config struct {
	Vent       *vent.Agent
	Matchmaker *matchmaker.Agent
	Scribe     *scribe.Agent
	Guardian   *guardian.Agent
	Mentor     *pimentor.Agent
	Classifier *intent.Classifier
	Store      *vectorstore.Store
	Sessions   *session.Store
	Parser     *extract.Parser

	// CaptureUserData gates turning live struggles into peer profiles.
	CaptureUserData bool

	Logger *slog.Logger
}

// Orchestrator routes messages across the agent roster.
type Orchestrator struct {
	vent       *vent.Agent
	matchmaker *matchmaker.Agent
	scribe     *scribe.Agent
	guardian   *guardian.Agent
	mentor     *pimentor.Agent
	classifier *intent.Classifier
	store      *vectorstore.Store
	sessions   *session.Store
	parser     *extract.Parser

	captureUserData bool
	logger          *slog.Logger
}

func New(config Config) *Orchestrator {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Parser == nil {
		config.Parser = extract.NewParser(config.Logger)
	}

	o := &Orchestrator{
		vent:            config.Vent,
		matchmaker:      config.Matchmaker,
		scribe:          config.Scribe,
		guardian:        config.Guardian,
		mentor:          config.Mentor,
		classifier:      config.Classifier,
		store:           config.Store,
		sessions:        config.Sessions,
		parser:          config.Parser,
		captureUserData: config.CaptureUserData,
		logger:          config.Logger,
	}

	o.logger.Info("agent orchestrator initialized")
	return o
}

func newEnvelope() *Envelope {
	return &Envelope{
		AgentMetadata: map[string]any{},
	}
}
