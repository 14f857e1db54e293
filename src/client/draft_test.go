package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftValidation(t *testing.T) {
	parent := uint64(12)

	valid := []Draft{
		{Text: "The cafeteria ran out of food again", Alias: "Student-22"},
		{Text: strings.Repeat("a", 500), Alias: "x"},
		{Text: strings.Repeat("a", 2000), Alias: "x", ParentID: &parent},
		{Text: "  padded  ", Alias: "  Room 101  "},
	}
	for _, d := range valid {
		assert.NoError(t, d.Validate())
	}

	invalid := []struct {
		d     Draft
		field string
	}{
		{Draft{Text: "", Alias: "ok"}, "text"},
		{Draft{Text: "   ", Alias: "ok"}, "text"},
		{Draft{Text: strings.Repeat("a", 501), Alias: "ok"}, "text"},
		{Draft{Text: strings.Repeat("a", 2001), Alias: "ok", ParentID: &parent}, "text"},
		{Draft{Text: "ok", Alias: ""}, "alias"},
		{Draft{Text: "ok", Alias: strings.Repeat("x", 31)}, "alias"},
		{Draft{Text: "ok", Alias: "bad!alias"}, "alias"},
	}
	for _, tc := range invalid {
		err := tc.d.Validate()
		require.Error(t, err, "%+v", tc.d)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, tc.field, verr.Field)
	}
}

func TestReplyGetsLongerLimit(t *testing.T) {
	parent := uint64(1)
	long := strings.Repeat("a", 1500)

	assert.Error(t, Draft{Text: long, Alias: "x"}.Validate())
	assert.NoError(t, Draft{Text: long, Alias: "x", ParentID: &parent}.Validate())
}
