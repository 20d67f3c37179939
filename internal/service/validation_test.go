package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitSkills(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"js, node ,  react", []string{"js", "node", "react"}},
		{"go", []string{"go"}},
		{"go,,sql, ", []string{"go", "sql"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitSkills(tt.in), "input %q", tt.in)
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, isEmail("a@x.com"))
	assert.True(t, isEmail("first.last+tag@example.co.uk"))
	assert.False(t, isEmail(""))
	assert.False(t, isEmail("a"))
	assert.False(t, isEmail("Ada <a@x.com>"))
}

func TestParseDate(t *testing.T) {
	d, ok := parseDate("2020-02-29")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), d)

	d, ok = parseDate("2020-02-29T10:00:00+02:00")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2020, 2, 29, 8, 0, 0, 0, time.UTC), d)

	_, ok = parseDate("29/02/2020")
	assert.False(t, ok)
}

func TestDateRange(t *testing.T) {
	var v validator
	from, to := v.dateRange("2020-01-01", "")
	assert.NoError(t, v.err())
	assert.Equal(t, 2020, from.Year())
	assert.Nil(t, to)

	v = validator{}
	v.dateRange("2021-01-01", "2020-01-01")
	assert.Equal(t, []FieldError{{Param: "to", Msg: "To date must be after from date"}}, v.errs)

	v = validator{}
	v.dateRange("", "soon")
	assert.Equal(t, []FieldError{
		{Param: "from", Msg: "From date is required"},
		{Param: "to", Msg: "To date must be a valid date"},
	}, v.errs)
}
