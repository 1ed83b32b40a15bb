package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestInit(t *testing.T) {
	defer zap.ReplaceGlobals(zap.NewNop())

	assert.NoError(t, Init("development"))
	assert.NoError(t, Init("production"))
	assert.Error(t, Init("moon"))
}
