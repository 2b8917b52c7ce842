package query_test

import (
	"math"
	"testing"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageValidate(t *testing.T) {
	tests := []struct {
		name    string
		page    query.Page
		wantErr bool
		skip    int
	}{
		{name: "first page", page: query.Page{Index: 0, Size: 10}, skip: 0},
		{name: "third page", page: query.Page{Index: 2, Size: 5}, skip: 10},
		{name: "largest offset", page: query.Page{Index: math.MaxInt, Size: 1}, skip: math.MaxInt},
		{name: "negative index", page: query.Page{Index: -1, Size: 1}, wantErr: true},
		{name: "zero size", page: query.Page{Index: 0, Size: 0}, wantErr: true},
		{name: "offset overflows to zero", page: query.Page{Index: math.MaxInt/2 + 1, Size: 4}, wantErr: true},
		{name: "offset overflows negative", page: query.Page{Index: math.MaxInt/2 + 2, Size: 2}, wantErr: true},
		{name: "max index", page: query.Page{Index: math.MaxInt, Size: 2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.page.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, query.CodeInvalidPage, errx.AsErrorX(err).Code())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.skip, tt.page.Skip())
		})
	}
}
