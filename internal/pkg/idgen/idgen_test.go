package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-engine/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/rng"
)

func TestSeededGenerator(t *testing.T) {
	a := idgen.NewSeeded("quest", rng.New(1))
	b := idgen.NewSeeded("quest", rng.New(1))

	first := a.Generate()
	assert.Equal(t, "quest_358b05c8-0a46-49d3-bd5a-831152b964ce", first)
	assert.Equal(t, first, b.Generate())
	assert.NotEqual(t, first, a.Generate())

	_, err := uuid.Parse(idgen.NewSeeded("", rng.New(9)).Generate())
	require.NoError(t, err)
}

func TestSequentialGenerator(t *testing.T) {
	g := idgen.NewSequential("obj")
	assert.Equal(t, "obj_1", g.Generate())
	assert.Equal(t, "obj_2", g.Generate())
	assert.Equal(t, "1", idgen.NewSequential("").Generate())
}

func TestUUIDGenerator(t *testing.T) {
	id := idgen.NewUUID("session").Generate()
	require.True(t, strings.HasPrefix(id, "session_"))
	_, err := uuid.Parse(strings.TrimPrefix(id, "session_"))
	assert.NoError(t, err)
}
