package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArguments_TypedGetters(t *testing.T) {
	args := Arguments{
		"name":    "orders",
		"limit":   25,
		"preload": true,
		"mixed":   3.14,
	}

	assert.Equal(t, "orders", args.String("name", "fallback"))
	assert.Equal(t, "fallback", args.String("missing", "fallback"))
	assert.Equal(t, "fallback", args.String("limit", "fallback"), "wrong type falls back")

	assert.Equal(t, 25, args.Int("limit", -1))
	assert.Equal(t, -1, args.Int("missing", -1))
	assert.Equal(t, -1, args.Int("mixed", -1), "float is not int")

	assert.True(t, args.Bool("preload", false))
	assert.False(t, args.Bool("missing", false))
}

func TestArguments_NilMap(t *testing.T) {
	var args Arguments

	assert.Equal(t, "d", args.String("k", "d"))
	assert.Equal(t, 7, args.Int("k", 7))
	assert.True(t, args.Bool("k", true))
}
