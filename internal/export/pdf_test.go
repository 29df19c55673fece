package export

import (
	"bytes"
	"testing"

	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSelectionPDF_English(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSelectionPDF(&buf, sampleLines(), model.LocaleEN)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output must be a PDF document")
	assert.Greater(t, buf.Len(), 500)
}

func TestRenderSelectionPDF_Greek(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSelectionPDF(&buf, sampleLines(), model.LocaleEL)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderSelectionPDF_UnknownLocaleFallsBackToEnglish(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSelectionPDF(&buf, sampleLines(), "de")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
