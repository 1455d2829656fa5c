package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole(t *testing.T) {
	t.Run("prints notifications in order", func(t *testing.T) {
		var buf bytes.Buffer
		console := NewConsole(&buf)

		console.Loading("Analyzing Twitter post...")
		assert.Equal(t, "Analyzing Twitter post...", console.Pending())
		console.Dismiss()
		console.Error("Invalid URL format")

		assert.Empty(t, console.Pending())
		assert.Equal(t, "… Analyzing Twitter post...\n✖ Invalid URL format\n", buf.String())
	})

	t.Run("success after dismiss", func(t *testing.T) {
		var buf bytes.Buffer
		console := NewConsole(&buf)

		console.Loading("Performing advanced analysis...")
		console.Dismiss()
		console.Success("Advanced analysis completed!")

		assert.Equal(t, "… Performing advanced analysis...\n✔ Advanced analysis completed!\n", buf.String())
	})
}
