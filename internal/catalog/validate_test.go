package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koustreak/lorelink/internal/errs"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"spells/fireball", true},
		{"items/armor/breastplate", true},
		{"a/b-c/1", true},
		{"", false},
		{"   ", false},
		{"fireball", false},
		{"spells/", false},
		{"/fireball", false},
		{"spells/fire.ball", false},
		{"spells/../secrets", false},
		{`spells\fireball`, false},
		{"spells/[x]", false},
		{"spells/a|b", false},
		{"Spells/Fireball", false},
		{"spells//fireball", false},
		{"spells/fire ball", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errs.IsInvalidInput(err), "got %v", err)
		})
	}
}

func TestSplitID(t *testing.T) {
	tests := []struct {
		id       string
		category string
		slug     string
		ok       bool
	}{
		{"spells/fireball", "spells", "fireball", true},
		{"items/armor/breastplate", "items/armor", "breastplate", true},
		{"fireball", "", "", false},
		{"/fireball", "", "", false},
		{"spells/", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			category, slug, ok := SplitID(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.slug, slug)
		})
	}
}
