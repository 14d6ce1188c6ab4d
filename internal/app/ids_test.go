package app

import (
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDGenerator(t *testing.T) {
	var g ULIDGenerator
	a, b := g.NewRoomID(), g.NewRoomID()
	assert.NotEqual(t, a, b)

	raw, ok := strings.CutPrefix(string(a), "interview_")
	require.True(t, ok)
	_, err := ulid.Parse(raw)
	assert.NoError(t, err)
}

func TestSequenceGenerator(t *testing.T) {
	g := &SequenceGenerator{Prefix: "r"}
	assert.EqualValues(t, "r1", g.NewRoomID())
	assert.EqualValues(t, "r2", g.NewRoomID())
}
