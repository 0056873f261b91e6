package quest

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/errors"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/rng"
)

// Level bounds for generated quests
const (
	MinLevel = 1
	MaxLevel = 10
)

// GeneratorConfig holds the dependencies for the procedural generator
type GeneratorConfig struct {
	RNG         *rng.RNG
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *GeneratorConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.RNG == nil {
		vb.RequiredField("RNG")
	}

	return vb.Build()
}

// Generator synthesizes quests from 2d6 table lookups
type Generator struct {
	rng *rng.RNG
	ids idgen.Generator
}

// NewGenerator creates a generator. Without an explicit IDGenerator, ids
// are drawn from the same RNG so they replay with the seed.
func NewGenerator(cfg *GeneratorConfig) (*Generator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.NewSeeded("quest", cfg.RNG)
	}

	return &Generator{rng: cfg.RNG, ids: ids}, nil
}

// Generate builds a quest for a player of the given level. The draw
// order is fixed: archetype, giver, location and base reward rolls, then
// objective details, then title and description, then the id.
func (g *Generator) Generate(playerLevel int, questType entities.QuestType) (*entities.Quest, error) {
	if !questType.Valid() {
		return nil, errors.InvalidArgumentf("unknown quest type: %s", questType)
	}
	level := min(max(playerLevel, MinLevel), MaxLevel)

	archetype := archetypeTable[g.rng.Roll2d6().Total-2]
	giver := giverTable[g.rng.Roll2d6().Total-2]
	location := locationTable[g.rng.Roll2d6().Total-2]
	base := baseRewardTable[g.rng.Roll2d6().Total-2]

	scale := 1 + float64(level-1)*0.5
	rewards := entities.Rewards{
		XP:   int(math.Floor(float64(base.XP) * scale)),
		Gold: int(math.Floor(float64(base.Gold) * scale)),
	}

	objectives, vars := g.objectives(archetype, location)
	vars["giver"] = giver
	vars["location"] = location

	tpl := templates[archetype]
	replacer := newReplacer(vars)
	title := replacer.Replace(rng.MustPick(g.rng, tpl.titles))
	description := replacer.Replace(rng.MustPick(g.rng, tpl.descriptions))

	q := &entities.Quest{
		ID:          g.ids.Generate(),
		Title:       title,
		Type:        questType,
		LevelRange:  [2]int{max(MinLevel, level-1), min(MaxLevel, level+1)},
		Giver:       giver,
		Location:    location,
		Description: description,
		Objectives:  objectives,
		Rewards:     rewards,
	}

	slog.Debug("Quest generated",
		"quest_id", q.ID,
		"archetype", archetype,
		"level", level,
		"objective_count", len(objectives),
	)

	return q, nil
}

func (g *Generator) objectives(archetype entities.ObjectiveType, location string) ([]*entities.Objective, map[string]string) {
	vars := map[string]string{}

	switch archetype {
	case entities.ObjectiveDelivery:
		item := rng.MustPick(g.rng, deliveryItems)
		target := rng.MustPick(g.rng, npcNames)
		vars["item"], vars["target"] = item, target
		return []*entities.Objective{
			{
				ID:          objectiveID(1),
				Type:        entities.ObjectiveCollect,
				Description: fmt.Sprintf("Recoge %s en %s", item, location),
				Required:    true,
				Location:    location,
				Items:       []string{item},
			},
			{
				ID:          objectiveID(2),
				Type:        entities.ObjectiveDelivery,
				Description: fmt.Sprintf("Entrega %s a %s", item, target),
				Required:    true,
				TargetNPC:   target,
				Items:       []string{item},
			},
		}, vars

	case entities.ObjectiveCombat:
		enemy := rng.MustPick(g.rng, enemyKinds)
		count := g.rng.NextInt(2, 4)
		vars["target"], vars["count"] = enemy, strconv.Itoa(count)
		return []*entities.Objective{
			counter(objectiveID(1), entities.ObjectiveCombat,
				fmt.Sprintf("Derrota a %d %s", count, enemy), count,
				func(o *entities.Objective) {
					o.Location = location
					o.Enemies = []string{enemy}
				}),
		}, vars

	case entities.ObjectiveExplore:
		return []*entities.Objective{
			{
				ID:          objectiveID(1),
				Type:        entities.ObjectiveExplore,
				Description: fmt.Sprintf("Explora %s", location),
				Required:    true,
				Location:    location,
			},
		}, vars

	case entities.ObjectiveTalk:
		target := rng.MustPick(g.rng, npcNames)
		vars["target"] = target
		return []*entities.Objective{
			{
				ID:          objectiveID(1),
				Type:        entities.ObjectiveTalk,
				Description: fmt.Sprintf("Habla con %s", target),
				Required:    true,
				Location:    location,
				TargetNPC:   target,
			},
		}, vars

	case entities.ObjectiveCollect:
		item := rng.MustPick(g.rng, collectItems)
		count := g.rng.NextInt(3, 6)
		vars["item"], vars["target"], vars["count"] = item, item, strconv.Itoa(count)
		return []*entities.Objective{
			counter(objectiveID(1), entities.ObjectiveCollect,
				fmt.Sprintf("Reúne %d de %s", count, item), count,
				func(o *entities.Objective) {
					o.Location = location
					o.Items = []string{item}
				}),
		}, vars

	case entities.ObjectiveEscort:
		target := rng.MustPick(g.rng, npcNames)
		vars["target"] = target
		return []*entities.Objective{
			{
				ID:          objectiveID(1),
				Type:        entities.ObjectiveEscort,
				Description: fmt.Sprintf("Escolta a %s hasta %s", target, location),
				Required:    true,
				Location:    location,
				TargetNPC:   target,
			},
		}, vars

	default:
		return []*entities.Objective{
			{
				ID:          objectiveID(1),
				Type:        entities.ObjectiveExplore,
				Description: fmt.Sprintf("Examina %s", location),
				Required:    true,
				Location:    location,
			},
			counter(objectiveID(2), entities.ObjectiveTalk, "Interroga a los testigos", 2, nil),
			counter(objectiveID(3), entities.ObjectiveCollect, "Reúne pruebas", 3,
				func(o *entities.Objective) {
					o.Items = []string{"prueba"}
				}),
		}, vars
	}
}

func counter(id string, t entities.ObjectiveType, description string, count int, opt func(*entities.Objective)) *entities.Objective {
	o := &entities.Objective{
		ID:           id,
		Type:         t,
		Description:  description,
		Required:     true,
		Count:        entities.IntPtr(count),
		CurrentCount: entities.IntPtr(0),
	}
	if opt != nil {
		opt(o)
	}
	return o
}

func objectiveID(n int) string {
	return fmt.Sprintf("obj_%d", n)
}

func newReplacer(vars map[string]string) *strings.Replacer {
	keys := []string{"giver", "location", "target", "item", "count"}
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", vars[k])
	}
	return strings.NewReplacer(pairs...)
}
