package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDefaultDiscards(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, L().GetLevel())
}

func TestSet(t *testing.T) {
	prev := *L()
	t.Cleanup(func() { Set(prev) })

	var buf bytes.Buffer
	Set(zerolog.New(&buf).Level(zerolog.DebugLevel))
	L().Debug().Str("k", "v").Msg("hello")

	assert.Contains(t, buf.String(), `"message":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}
