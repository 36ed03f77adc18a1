package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "attendance", Key())
	assert.Equal(t, "attendance:roster:employee", Key("roster", "employee"))
	assert.Equal(t, "attendance:roster", Key("", "roster", ""))
}
