package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissing(t *testing.T) {
	required := []string{"Placa", "Destino", "Conductor"}

	tests := []struct {
		name   string
		values map[string]string
		want   []string
	}{
		{
			name:   "all present",
			values: map[string]string{"Placa": "ABC-123", "Destino": "Lima", "Conductor": "J. Perez"},
			want:   nil,
		},
		{
			name:   "absent key",
			values: map[string]string{"Placa": "ABC-123", "Conductor": "J. Perez"},
			want:   []string{"Destino"},
		},
		{
			name:   "empty after trim counts as missing",
			values: map[string]string{"Placa": "   ", "Destino": "Lima", "Conductor": "\t"},
			want:   []string{"Placa", "Conductor"},
		},
		{
			name:   "nil map",
			values: nil,
			want:   []string{"Placa", "Destino", "Conductor"},
		},
		{
			name:   "extra keys are ignored",
			values: map[string]string{"Placa": "ABC-123", "Destino": "Lima", "Conductor": "X", "Otro": ""},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Missing(required, tt.values))
		})
	}
}

func TestMissingEmptyRequired(t *testing.T) {
	assert.Empty(t, Missing(nil, map[string]string{"a": "b"}))
}

func TestMergeOnCategoryChange(t *testing.T) {
	previous := map[string]string{
		"Placa":   "ABC-123",
		"Destino": "Lima",
	}

	merged := MergeOnCategoryChange([]string{"Placa", "Proveedor"}, previous)

	// Surviving name keeps its value, new name starts empty, dropped name
	// is gone.
	assert.Equal(t, map[string]string{"Placa": "ABC-123", "Proveedor": ""}, merged)

	// A merge result with a newly required name fails validation until the
	// user fills it in.
	assert.Equal(t, []string{"Proveedor"}, Missing([]string{"Placa", "Proveedor"}, merged))
}
