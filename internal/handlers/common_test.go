package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantSkip  int
		wantLimit int
		wantErr   bool
	}{
		{name: "defaults", query: "", wantSkip: 0, wantLimit: 100},
		{name: "explicit values", query: "?skip=20&limit=50", wantSkip: 20, wantLimit: 50},
		{name: "limit at upper bound", query: "?limit=1000", wantSkip: 0, wantLimit: 1000},
		{name: "limit at lower bound", query: "?limit=1", wantSkip: 0, wantLimit: 1},
		{name: "negative skip", query: "?skip=-1", wantErr: true},
		{name: "zero limit", query: "?limit=0", wantErr: true},
		{name: "limit above bound", query: "?limit=1001", wantErr: true},
		{name: "non-numeric skip", query: "?skip=abc", wantErr: true},
		{name: "non-numeric limit", query: "?limit=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/posts"+tt.query, nil)

			skip, limit, err := parsePagination(r)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSkip, skip)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
