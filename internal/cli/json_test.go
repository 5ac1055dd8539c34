package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightJSON(t *testing.T) {
	SetEnabled(true)
	t.Cleanup(func() { SetEnabled(!checkNoColor()) })

	out := HighlightJSON(`{"id": "gpt-4", "max_tokens": 8192, "has_limit": true}`)
	assert.Contains(t, out, Blue+`"id"`+Reset+":")
	assert.Contains(t, out, Green+`"gpt-4"`+Reset)
	assert.Contains(t, out, Purple+"8192"+Reset)
	assert.Contains(t, out, Yellow+"true"+Reset)
}

func TestPrettyPrint_NoColor(t *testing.T) {
	SetEnabled(false)
	t.Cleanup(func() { SetEnabled(!checkNoColor()) })

	var buf bytes.Buffer
	PrettyPrint(&buf, map[string]int{"ada": 2049})
	assert.Equal(t, "{\n  \"ada\": 2049\n}\n", buf.String())
}
