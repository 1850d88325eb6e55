package certificate

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPNG(t *testing.T) {
	r := NewRenderer("") // built-in face, no font file needed

	data, err := r.Render(Details{
		UserName:      "Alice Example",
		ScenarioTitle: "Suspicious Email Alert",
		ScorePercent:  87.5,
		CompletedAt:   time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 2000, bounds.Dx())
	assert.Equal(t, 1400, bounds.Dy())
}

func TestRenderLongTitleWraps(t *testing.T) {
	r := NewRenderer("")

	_, err := r.Render(Details{
		UserName:      "Bob",
		ScenarioTitle: "A Remarkably Long Scenario Title About Social Engineering Attacks Against Regional Healthcare Providers During Peak Season",
		ScorePercent:  61,
	})
	assert.NoError(t, err)
}

func TestRenderValidation(t *testing.T) {
	r := NewRenderer("")

	_, err := r.Render(Details{ScenarioTitle: "t", ScorePercent: 50})
	assert.Error(t, err)

	_, err = r.Render(Details{UserName: "u", ScorePercent: 50})
	assert.Error(t, err)
}

func TestNewRendererMissingFontFallsBack(t *testing.T) {
	r := NewRenderer("/nonexistent/font.ttf")

	data, err := r.Render(Details{UserName: "Carol", ScenarioTitle: "t", ScorePercent: 100})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
