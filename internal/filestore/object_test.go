package filestore

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/lorelink/internal/errs"
)

func TestEntry_Leaf(t *testing.T) {
	tests := []struct {
		name   string
		entry  Entry
		prefix string
		want   string
	}{
		{"folder", Entry{Name: "srd/Bestiary/", IsPrefix: true}, "srd/", "Bestiary"},
		{"object", Entry{Name: "srd/Bestiary/srd-2014_aboleth.json"}, "srd/Bestiary/", "srd-2014_aboleth.json"},
		{"root folder no prefix", Entry{Name: "Items/", IsPrefix: true}, "", "Items"},
		{"prefix mismatch keeps last segment", Entry{Name: "other/x.json"}, "srd/", "x.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Leaf(tt.prefix, "/"))
		})
	}
}

func TestReadLimited(t *testing.T) {
	data, err := ReadLimited(strings.NewReader("0123456789"), 10)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))

	data, err = ReadLimited(strings.NewReader("0123456789"), 0)
	require.NoError(t, err)
	assert.Len(t, data, 10)

	// A reader that never ends stops one byte past the limit.
	_, err = ReadLimited(iotest.OneByteReader(strings.NewReader(strings.Repeat("x", 1<<20))), 16)
	assert.True(t, errs.IsTooLarge(err))

	boom := errors.New("reset")
	_, err = ReadLimited(iotest.ErrReader(boom), 16)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errs.IsTooLarge(err))
}
