package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func plain(t *testing.T) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var out, errOut bytes.Buffer
	return New(&out, &errOut), &out, &errOut
}

func TestSuccessAddsCheckmarkOnce(t *testing.T) {
	p, out, _ := plain(t)

	p.Success("saved %d markings\n", 3)
	p.Success("✓ already marked\n")

	assert.Equal(t, "✓ saved 3 markings\n✓ already marked\n", out.String())
}

func TestWarningGoesToErrorStream(t *testing.T) {
	p, out, errOut := plain(t)

	p.Warning("nothing to merge\n")

	assert.Empty(t, out.String())
	assert.Equal(t, "⚠️  nothing to merge\n", errOut.String())
}

func TestStepAndInfo(t *testing.T) {
	p, out, _ := plain(t)

	p.Step("loading\n")
	p.Info("%s=%d\n", "left", 2)

	assert.Equal(t, "→ loading\nleft=2\n", out.String())
}

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		suggestions []string
		want        string
	}{
		{
			name: "no suggestions",
			want: "Unknown canvas\n\nuse left or right\n",
		},
		{
			name:        "one suggestion",
			suggestions: []string{"Run pairmark list"},
			want:        "Unknown canvas\n\nuse left or right\n\nRun pairmark list\n",
		},
		{
			name:        "several suggestions",
			suggestions: []string{"a", "b"},
			want:        "Unknown canvas\n\nuse left or right\n\nEither:\n  1. a\n  2. b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, errOut := plain(t)

			err := p.Error("Unknown canvas", "use left or right", tt.suggestions...)

			assert.EqualError(t, err, "Unknown canvas")
			assert.Equal(t, tt.want, errOut.String())
		})
	}
}
