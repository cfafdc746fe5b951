package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"genopipe/internal/core/domain"
)

func TestFormatCall(t *testing.T) {
	t.Parallel()

	t.Run("sorts keys", func(t *testing.T) {
		t.Parallel()
		got := domain.FormatCall("expr.correlate", map[string]any{
			"top":    5,
			"matrix": "a.csv",
		})
		assert.Equal(t, `expr.correlate(matrix="a.csv", top=5)`, got)
	})

	t.Run("drops excluded arguments", func(t *testing.T) {
		t.Parallel()
		got := domain.FormatCall("expr.correlate", map[string]any{
			"matrix":  "a.csv",
			"scratch": "/tmp/x",
		}, "scratch")
		assert.Equal(t, `expr.correlate(matrix="a.csv")`, got)
	})

	t.Run("no arguments", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "warm_cache()", domain.FormatCall("warm_cache", nil))
	})

	t.Run("values render as canonical JSON", func(t *testing.T) {
		t.Parallel()
		got := domain.FormatCall("f", map[string]any{
			"opts": map[string]any{"b": 2, "a": 1},
			"list": []int{3, 1},
		})
		assert.Equal(t, `f(list=[3,1], opts={"a":1,"b":2})`, got)
	})

	t.Run("unmarshalable value falls back to type", func(t *testing.T) {
		t.Parallel()
		got := domain.FormatCall("f", map[string]any{"ch": make(chan int)})
		assert.Equal(t, "f(ch=<chan int>)", got)
	})
}
