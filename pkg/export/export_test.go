package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Day", "Start", "Room"},
		Rows: [][]string{
			{"MONDAY", "09:00", "R-101"},
			{"TUESDAY", "10:00"},
		},
	}

	body, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Day,Start,Room\nMONDAY,09:00,R-101\nTUESDAY,10:00,\n", string(body))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Day", "Start", "Room"},
		Rows:    [][]string{{"MONDAY", "09:00", "R-101"}},
	}

	body, err := NewPDFExporter().Render(data, "CS-A Schedule")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}
