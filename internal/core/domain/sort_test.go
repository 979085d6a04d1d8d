package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvasilev/stockroom-be/internal/core/domain"
)

func TestParseSortDirection(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      domain.SortDirection
		wantError bool
	}{
		{name: "asc", input: "asc", want: domain.SortAsc},
		{name: "desc", input: "desc", want: domain.SortDesc},
		{name: "mixed_case", input: "DESC", want: domain.SortDesc},
		{name: "empty", input: "", wantError: true},
		{name: "unknown", input: "sideways", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseSortDirection(tt.input)

			if tt.wantError {
				var invalidErr *domain.InvalidArgumentError
				require.ErrorAs(t, err, &invalidErr)
				assert.Equal(t, domain.MsgSortOrderAscOrDesc, invalidErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortSpec_UnmarshalJSON_PreservesKeyOrder(t *testing.T) {
	// Standard map decoding would scramble this; the decoded keys must
	// keep document order because earlier keys outrank later ones.
	input := `{"quantity":"desc","name":"asc","category":"desc"}`

	var spec domain.SortSpec
	require.NoError(t, json.Unmarshal([]byte(input), &spec))

	require.Len(t, spec, 3)
	assert.Equal(t, domain.SortKey{Field: "quantity", Direction: domain.SortDesc}, spec[0])
	assert.Equal(t, domain.SortKey{Field: "name", Direction: domain.SortAsc}, spec[1])
	assert.Equal(t, domain.SortKey{Field: "category", Direction: domain.SortDesc}, spec[2])
}

func TestSortSpec_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLen   int
		wantError bool
	}{
		{name: "empty_object", input: `{}`, wantLen: 0},
		{name: "single_key", input: `{"name":"asc"}`, wantLen: 1},
		{name: "not_an_object", input: `["name"]`, wantError: true},
		{name: "direction_not_a_string", input: `{"name":1}`, wantError: true},
		{name: "invalid_direction", input: `{"name":"up"}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spec domain.SortSpec
			err := json.Unmarshal([]byte(tt.input), &spec)

			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, spec, tt.wantLen)
		})
	}
}

func TestSortSpec_MarshalJSON_RoundTrip(t *testing.T) {
	spec := domain.SortSpec{
		{Field: "category", Direction: domain.SortAsc},
		{Field: "quantity", Direction: domain.SortDesc},
	}

	data, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"asc","quantity":"desc"}`, string(data))

	var decoded domain.SortSpec
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, spec, decoded)
}

func TestPageRequest_Unmarshal(t *testing.T) {
	input := `{"pageNumber":2,"itemsPerPage":25,"sortedProperties":{"name":"asc","id":"desc"}}`

	var req domain.PageRequest
	require.NoError(t, json.Unmarshal([]byte(input), &req))

	assert.Equal(t, 2, req.PageNumber)
	assert.Equal(t, 25, req.ItemsPerPage)
	require.Len(t, req.Sort, 2)
	assert.Equal(t, "name", req.Sort[0].Field)
	assert.Equal(t, "id", req.Sort[1].Field)
}
