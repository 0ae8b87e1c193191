package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newtron-network/netonboard/pkg/fieldmap"
	"github.com/newtron-network/netonboard/pkg/query"
	"github.com/newtron-network/netonboard/pkg/render"
	"github.com/newtron-network/netonboard/pkg/util"
)

var showVersion = []any{
	map[string]any{"hostname": "sw1", "serial": []any{"FOC123"}, "uptime": "1 week"},
}

func TestShape(t *testing.T) {
	row := map[string]any{"id": "10"}
	tests := []struct {
		name     string
		in       any
		iterable fieldmap.IterableType
		want     any
	}{
		{"empty list, none", []any{}, fieldmap.IterableNone, []any{}},
		{"empty list, dict", []any{}, fieldmap.IterableDict, map[string]any{}},
		{"empty list, str", []any{}, fieldmap.IterableStr, ""},
		{"singleton scalar", []any{"FOC123"}, fieldmap.IterableNone, "FOC123"},
		{"singleton scalar, str", []any{"FOC123"}, fieldmap.IterableStr, "FOC123"},
		{"singleton number", []any{1500.0}, fieldmap.IterableNone, 1500.0},
		{"singleton mapping, none", []any{row}, fieldmap.IterableNone, []any{row}},
		{"singleton mapping, dict", []any{row}, fieldmap.IterableDict, row},
		{"singleton list", []any{[]any{"a"}}, fieldmap.IterableNone, []any{"a"}},
		{"many", []any{"a", "b"}, fieldmap.IterableStr, []any{"a", "b"}},
		{"not a list", "x", fieldmap.IterableDict, "x"},
		{"nil", nil, fieldmap.IterableNone, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Shape(tt.in, tt.iterable))
		})
	}
}

func TestExtract(t *testing.T) {
	cmd := &fieldmap.Command{Command: "show version", JPath: ".[0].serial", IterableType: fieldmap.IterableStr}

	pre, post, err := Extract(showVersion, cmd, render.HostVars("10.0.0.1"))
	require.NoError(t, err)
	assert.Equal(t, []any{"FOC123"}, pre)
	assert.Equal(t, "FOC123", post)
}

func TestExtractJSONPath(t *testing.T) {
	cmd := &fieldmap.Command{JPath: "$[0].hostname", Language: query.JSONPath}

	_, post, err := Extract(showVersion, cmd, render.HostVars("10.0.0.1"))
	require.NoError(t, err)
	assert.Equal(t, "sw1", post)
}

func TestExtractRendersJPath(t *testing.T) {
	output := []any{
		map[string]any{"interface": "Gi0/0", "ip_address": "10.0.0.1"},
		map[string]any{"interface": "Gi0/1", "ip_address": "10.0.0.2"},
	}
	cmd := &fieldmap.Command{JPath: `first(.[] | select(.ip_address == "{{ .original_host }}") | .interface)`}

	_, post, err := Extract(output, cmd, render.HostVars("10.0.0.2"))
	require.NoError(t, err)
	assert.Equal(t, "Gi0/1", post)
}

func TestExtractPostProcessor(t *testing.T) {
	t.Run("json output is decoded", func(t *testing.T) {
		cmd := &fieldmap.Command{
			JPath:         ".[0].serial",
			PostProcessor: `{{ tojson (dict "sn" (first .obj) "host" .original_host) }}`,
		}
		pre, post, err := Extract(showVersion, cmd, render.HostVars("10.0.0.1"))
		require.NoError(t, err)
		assert.Equal(t, []any{"FOC123"}, pre)
		assert.Equal(t, map[string]any{"sn": "FOC123", "host": "10.0.0.1"}, post)
	})

	t.Run("plain text is kept", func(t *testing.T) {
		cmd := &fieldmap.Command{JPath: ".[0].uptime", PostProcessor: "{{ upper .obj }}"}
		_, post, err := Extract(showVersion, cmd, render.HostVars("h"))
		require.NoError(t, err)
		assert.Equal(t, "1 WEEK", post)
	})

	t.Run("numeric text is decoded", func(t *testing.T) {
		cmd := &fieldmap.Command{JPath: ".[0].hostname", PostProcessor: "1500"}
		_, post, err := Extract(showVersion, cmd, render.HostVars("h"))
		require.NoError(t, err)
		assert.Equal(t, 1500.0, post)
	})

	t.Run("no match renders empty", func(t *testing.T) {
		cmd := &fieldmap.Command{JPath: ".[] | select(.x == 1)", PostProcessor: "{{ .obj }}"}
		pre, post, err := Extract([]any{map[string]any{"x": 2.0}}, cmd, render.HostVars("h"))
		require.NoError(t, err)
		assert.Nil(t, pre)
		assert.Equal(t, "", post)
	})

	t.Run("decoded list is reshaped", func(t *testing.T) {
		cmd := &fieldmap.Command{JPath: ".", PostProcessor: `["only"]`}
		_, post, err := Extract(showVersion, cmd, render.HostVars("h"))
		require.NoError(t, err)
		assert.Equal(t, "only", post)
	})
}

func TestExtractDegrades(t *testing.T) {
	tests := []struct {
		name    string
		cmd     fieldmap.Command
		output  any
		wantErr error
	}{
		{
			name:    "undefined template variable",
			cmd:     fieldmap.Command{JPath: `.[] | select(.x == "{{ .device_role }}")`},
			output:  showVersion,
			wantErr: util.ErrRenderFailed,
		},
		{
			name:    "post processor failure",
			cmd:     fieldmap.Command{JPath: ".[0].serial", PostProcessor: "{{ .nope }}"},
			output:  showVersion,
			wantErr: util.ErrRenderFailed,
		},
		{
			name:    "type mismatch",
			cmd:     fieldmap.Command{JPath: ".[0].hostname.name"},
			output:  showVersion,
			wantErr: util.ErrQueryFailed,
		},
		{
			name:    "missing output",
			cmd:     fieldmap.Command{JPath: "[.[].interface]"},
			output:  nil,
			wantErr: util.ErrQueryFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pre, post, err := Extract(tt.output, &tt.cmd, render.HostVars("h"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, "", pre)
			assert.Equal(t, "", post)
		})
	}
}
