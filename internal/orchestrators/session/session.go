// Package session owns one game: the seeded RNG, the resolver, the quest
// manager and the player record. Everything random in a session draws from
// the same RNG, so a saved session resumes on exactly the same stream.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/errors"
	"github.com/KirkDiggler/rpg-engine/internal/mechanics/dice"
	"github.com/KirkDiggler/rpg-engine/internal/narrative"
	"github.com/KirkDiggler/rpg-engine/internal/orchestrators/combat"
	"github.com/KirkDiggler/rpg-engine/internal/orchestrators/quest"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/rng"
	"github.com/KirkDiggler/rpg-engine/internal/progression"
	sessionrepo "github.com/KirkDiggler/rpg-engine/internal/repositories/session"
)

// Config holds the dependencies for a new session
type Config struct {
	// ID is generated when empty
	ID string
	// Seed is generated when empty and recorded either way
	Seed   string
	Player entities.Player

	Repository  sessionrepo.Repository
	Clock       clock.Clock
	Narrative   narrative.Generator
	EventBus    events.EventBus
	IDGenerator idgen.Generator
}

// Validate ensures all required fields are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Player.Name == "" {
		vb.RequiredField("Player.Name")
	}
	errors.ValidateRange("Player.Level", c.Player.Level, 1, progression.MaxLevel, vb)
	if c.Player.MaxWounds <= 0 {
		vb.Field("Player.MaxWounds", "must be positive")
	}
	if c.Player.Wounds < 0 || c.Player.Wounds > c.Player.MaxWounds {
		vb.Fieldf("Player.Wounds", "must be between 0 and %d", c.Player.MaxWounds)
	}
	for _, attr := range entities.AllAttributes {
		v, _ := c.Player.Attributes.Get(attr)
		errors.ValidateRange("Player.Attributes."+string(attr), v, 0, entities.AttributeCap, vb)
	}
	if c.Player.AttributePoints < 0 {
		vb.Field("Player.AttributePoints", "must not be negative")
	}

	return vb.Build()
}

// Session is a single game. It is not safe for concurrent use.
type Session struct {
	id       string
	seed     string
	rng      *rng.RNG
	resolver *dice.Resolver
	quests   *quest.Manager
	player   entities.Player
	world    sessionrepo.World

	// encounter is the engine from the last StartCombat, cleared once folded
	encounter *combat.Engine

	repo      sessionrepo.Repository
	clock     clock.Clock
	narrative *narrative.Decorator
	bus       events.EventBus
}

// New starts a session from a seed
func New(cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.NewUUID("session")
	}

	id := cfg.ID
	if id == "" {
		id = ids.Generate()
	}
	seed := cfg.Seed
	if seed == "" {
		seed = ids.Generate()
	}

	s, err := build(id, seed, rng.NewFromSeed(seed), cfg.Player.Clone(), deps{
		repo:      cfg.Repository,
		clock:     cfg.Clock,
		narrative: cfg.Narrative,
		bus:       cfg.EventBus,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Session started",
		"session_id", s.id,
		"seed", s.seed,
		"player", s.player.Name,
	)

	return s, nil
}

type deps struct {
	repo      sessionrepo.Repository
	clock     clock.Clock
	narrative narrative.Generator
	bus       events.EventBus
}

func build(id, seed string, r *rng.RNG, player entities.Player, d deps) (*Session, error) {
	gen, err := quest.NewGenerator(&quest.GeneratorConfig{RNG: r})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create quest generator")
	}
	mgr, err := quest.NewManager(&quest.ManagerConfig{Generator: gen})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create quest manager")
	}

	clk := d.clock
	if clk == nil {
		clk = clock.New()
	}

	return &Session{
		id:        id,
		seed:      seed,
		rng:       r,
		resolver:  dice.NewResolver(r),
		quests:    mgr,
		player:    player,
		world:     sessionrepo.World{Relationships: map[string]int{}},
		repo:      d.repo,
		clock:     clk,
		narrative: narrative.NewDecorator(d.narrative),
		bus:       d.bus,
	}, nil
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// Seed returns the seed the session started from
func (s *Session) Seed() string { return s.seed }

// RNGState returns the current RNG state
func (s *Session) RNGState() uint32 { return s.rng.State() }

// Player returns a copy of the player record
func (s *Session) Player() entities.Player { return s.player.Clone() }

// Quests returns the quest manager
func (s *Session) Quests() *quest.Manager { return s.quests }

// Resolver returns the session's dice resolver
func (s *Session) Resolver() *dice.Resolver { return s.resolver }

// Location returns the player's current location
func (s *Session) Location() string { return s.world.Location }

// MoveTo sets the player's location
func (s *Session) MoveTo(location string) {
	s.world.Location = location
}

// World returns a copy of the world state
func (s *Session) World() sessionrepo.World {
	return cloneWorld(s.world)
}

// Check resolves an attribute check for the player and narrates it
func (s *Session) Check(ctx context.Context, input CheckInput) (*CheckOutput, error) {
	mod, ok := s.player.Attributes.Get(input.Attribute)
	if !ok {
		return nil, errors.InvalidArgumentf("unknown attribute %q", input.Attribute)
	}

	res := s.resolver.Roll(mod, input.Difficulty, input.Advantage, 0)
	s.world.ElapsedTurns++

	slog.Debug("Check resolved",
		"session_id", s.id,
		"attribute", input.Attribute,
		"total", res.Total,
		"outcome", res.Outcome,
	)

	return &CheckOutput{
		Result: res,
		Text:   s.narrative.RollOutcome(ctx, input.Action, res),
	}, nil
}

// Rest restores fatigue and advances time
func (s *Session) Rest() {
	progression.Rest(&s.player)
	s.world.ElapsedTurns++
}

// SpendAttributePoint spends a point banked by a level-up to raise one
// attribute
func (s *Session) SpendAttributePoint(attr entities.Attribute) progression.Result {
	return progression.ApplyAttributePoint(&s.player, attr)
}

// ApplyRewards adds gold and items and then experience
func (s *Session) ApplyRewards(r entities.Rewards) []progression.LevelUp {
	if r.Gold > 0 {
		s.player.Gold += r.Gold
	}
	s.player.Inventory = append(s.player.Inventory, r.Items...)
	return progression.AddXP(&s.player, r.XP)
}

// StartCombat begins an encounter using the session's resolver
func (s *Session) StartCombat(enemies []entities.Enemy) (*combat.Engine, error) {
	eng, err := combat.NewEngine(&combat.Config{
		Player:   s.player,
		Enemies:  enemies,
		Resolver: s.resolver,
		Clock:    s.clock,
		EventBus: s.bus,
	})
	if err != nil {
		return nil, err
	}
	s.encounter = eng
	return eng, nil
}

// EndCombat folds a finished encounter back into the session. Wounds and
// inventory come from the encounter; a victory that was not an escape
// pays the encounter rewards. Only the encounter from the latest
// StartCombat can be folded, and only once.
func (s *Session) EndCombat(eng *combat.Engine) (*CombatSummary, error) {
	if eng == nil {
		return nil, errors.InvalidArgument("engine is required")
	}
	if eng != s.encounter {
		return nil, errors.FailedPreconditionf("encounter is not active in session %s", s.id)
	}
	if !eng.IsOver() {
		return nil, errors.IllegalPhasef("combat is still in phase %s", eng.Phase())
	}
	s.encounter = nil

	state := eng.State()
	s.player.Wounds = state.Player.Wounds
	s.player.Inventory = state.Player.Inventory
	s.world.ElapsedTurns += state.Turn

	summary := &CombatSummary{
		Phase:   state.Phase,
		Escaped: state.Escaped,
		Turns:   state.Turn,
	}
	if state.Phase == combat.PhaseVictory && !state.Escaped {
		summary.Rewards = eng.Rewards()
		summary.LevelUps = s.ApplyRewards(summary.Rewards)
	}

	slog.Info("Combat folded into session",
		"session_id", s.id,
		"phase", state.Phase,
		"xp", summary.Rewards.XP,
		"level_ups", len(summary.LevelUps),
	)

	return summary, nil
}

// GenerateQuest generates and activates a procedural quest at the
// player's level
func (s *Session) GenerateQuest(ctx context.Context, questType entities.QuestType) (*QuestOffer, error) {
	q, err := s.quests.GenerateQuest(s.player.Level, questType)
	if err != nil {
		return nil, err
	}
	return &QuestOffer{Quest: q, Intro: s.narrative.QuestIntro(ctx, q)}, nil
}

// StartCampaignQuest loads a campaign document and activates its quest
func (s *Session) StartCampaignQuest(ctx context.Context, data []byte) (*QuestOffer, error) {
	q, err := s.quests.LoadCampaign(data)
	if err != nil {
		return nil, err
	}
	if res := s.quests.ActivateCampaignQuest(q.ID); !res.Success {
		return nil, errors.FailedPreconditionf("failed to activate quest %s: %s", q.ID, res.Reason)
	}
	q = s.quests.Get(q.ID)
	return &QuestOffer{Quest: q, Intro: s.narrative.QuestIntro(ctx, q)}, nil
}

// CompleteObjective checks the player's inventory and location, completes
// the objective and pays its rewards. Delivered items leave the inventory.
func (s *Session) CompleteObjective(questID, objectiveID string) ObjectiveOutcome {
	check := s.quests.CanCompleteObjective(questID, objectiveID, s.player.Inventory, s.world.Location)
	if !check.CanComplete {
		return ObjectiveOutcome{ObjectiveResult: quest.ObjectiveResult{
			OperationResult: quest.OperationResult{Reason: check.Reason},
		}}
	}

	var delivered []string
	if q := s.quests.Get(questID); q != nil {
		if obj := q.Objective(objectiveID); obj != nil && obj.Type == entities.ObjectiveDelivery {
			delivered = obj.Items
		}
	}

	res := s.quests.CompleteObjective(questID, objectiveID)
	if !res.Success {
		return ObjectiveOutcome{ObjectiveResult: res}
	}

	for _, item := range delivered {
		s.player.RemoveItem(item)
	}

	return ObjectiveOutcome{
		ObjectiveResult: res,
		LevelUps:        s.ApplyRewards(res.Rewards),
	}
}

// ProgressObjective advances a counter objective
func (s *Session) ProgressObjective(questID, objectiveID string, amount int) quest.ProgressResult {
	return s.quests.ProgressObjective(questID, objectiveID, amount)
}

// ChooseBranch applies the consequences of a campaign branch to the session
func (s *Session) ChooseBranch(questID, branchID string) ([]progression.LevelUp, error) {
	var levelUps []progression.LevelUp

	err := s.quests.ExecuteBranch(questID, branchID, func(c entities.Consequence) error {
		switch c := c.(type) {
		case entities.Relationship:
			s.world.Relationships[c.NPC] += c.Change
		case entities.RewardGrant:
			levelUps = append(levelUps, s.ApplyRewards(c.Rewards)...)
		case entities.UnlockQuest:
			s.world.UnlockedQuests = appendUnique(s.world.UnlockedQuests, c.QuestID)
		case entities.UnlockLocation:
			s.world.UnlockedLocations = appendUnique(s.world.UnlockedLocations, c.Location)
		default:
			return errors.InvalidArgumentf("unsupported consequence %T", c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return levelUps, nil
}

// MarkNPCDead records an NPC death for failure checks
func (s *Session) MarkNPCDead(name string) {
	s.world.DeadNPCs = appendUnique(s.world.DeadNPCs, name)
}

// CheckFailures evaluates every active quest's failure conditions against
// the world and returns the quests that failed
func (s *Session) CheckFailures() map[string]quest.FailureCheck {
	fctx := quest.FailureContext{
		DeadNPCs:     s.world.DeadNPCs,
		ElapsedTurns: s.world.ElapsedTurns,
		Inventory:    s.player.Inventory,
	}

	failed := map[string]quest.FailureCheck{}
	for _, q := range s.quests.Active() {
		if check := s.quests.CheckFailureConditions(q.ID, fctx); check.Failed {
			failed[q.ID] = check
		}
	}
	return failed
}

// Snapshot captures the session for persistence
func (s *Session) Snapshot() *sessionrepo.Snapshot {
	return &sessionrepo.Snapshot{
		ID:       s.id,
		Version:  sessionrepo.SnapshotVersion,
		Seed:     s.seed,
		RNGState: s.rng.State(),
		Player:   s.player.Clone(),
		Quests:   s.quests.Serialize(),
		World:    cloneWorld(s.world),
	}
}

// Save writes the session to its repository
func (s *Session) Save(ctx context.Context) (*sessionrepo.Snapshot, error) {
	if s.repo == nil {
		return nil, errors.FailedPreconditionf("session %s has no repository", s.id)
	}

	out, err := s.repo.Save(ctx, sessionrepo.SaveInput{Snapshot: s.Snapshot()})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save session %s", s.id)
	}

	slog.Info("Session saved",
		"session_id", s.id,
		"rng_state", out.Snapshot.RNGState,
	)

	return out.Snapshot, nil
}

// LoadConfig holds the dependencies for loading a saved session
type LoadConfig struct {
	ID         string
	Repository sessionrepo.Repository
	Clock      clock.Clock
	Narrative  narrative.Generator
	EventBus   events.EventBus
}

// Validate ensures all required fields are provided
func (c *LoadConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ID == "" {
		vb.RequiredField("ID")
	}
	if c.Repository == nil {
		vb.RequiredField("Repository")
	}

	return vb.Build()
}

// Load reads a saved session and resumes it
func Load(ctx context.Context, cfg *LoadConfig) (*Session, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	out, err := cfg.Repository.Get(ctx, sessionrepo.GetInput{ID: cfg.ID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load session %s", cfg.ID)
	}

	return restore(out.Snapshot, deps{
		repo:      cfg.Repository,
		clock:     cfg.Clock,
		narrative: cfg.Narrative,
		bus:       cfg.EventBus,
	})
}

// restore rebuilds a session from a snapshot
func restore(snap *sessionrepo.Snapshot, d deps) (*Session, error) {
	if snap == nil {
		return nil, errors.InvalidArgument("snapshot is required")
	}
	if !sessionrepo.SupportedVersion(snap.Version) {
		return nil, errors.InvalidArgumentf("snapshot version %d is not supported, want %d",
			snap.Version, sessionrepo.SnapshotVersion)
	}

	r := rng.New(snap.RNGState)
	s, err := build(snap.ID, snap.Seed, r, snap.Player.Clone(), d)
	if err != nil {
		return nil, err
	}
	if err := s.quests.Deserialize(snap.Quests); err != nil {
		return nil, errors.Wrap(err, "failed to restore quests")
	}
	s.world = cloneWorld(snap.World)

	slog.Info("Session restored",
		"session_id", s.id,
		"rng_state", snap.RNGState,
		"active_quests", len(snap.Quests.ActiveIDs),
	)

	return s, nil
}

func cloneWorld(w sessionrepo.World) sessionrepo.World {
	out := sessionrepo.World{
		Location:          w.Location,
		ElapsedTurns:      w.ElapsedTurns,
		DeadNPCs:          slices.Clone(w.DeadNPCs),
		Relationships:     make(map[string]int, len(w.Relationships)),
		UnlockedQuests:    slices.Clone(w.UnlockedQuests),
		UnlockedLocations: slices.Clone(w.UnlockedLocations),
	}
	for k, v := range w.Relationships {
		out.Relationships[k] = v
	}
	return out
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}

// String implements fmt.Stringer
func (s *Session) String() string {
	return fmt.Sprintf("session %s (seed %q, player %s L%d)", s.id, s.seed, s.player.Name, s.player.Level)
}
