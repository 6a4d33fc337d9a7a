package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityKind(t *testing.T) {
	tests := []struct {
		in      string
		want    EntityKind
		wantErr bool
	}{
		{"user", EntityKindUser, false},
		{"users", EntityKindUser, false},
		{"group", EntityKindGroup, false},
		{"groups", EntityKindGroup, false},
		{"robot", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEntityKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntityKind_Labels(t *testing.T) {
	assert.Equal(t, "users", EntityKindUser.Plural())
	assert.Equal(t, "groups", EntityKindGroup.Plural())
	assert.Equal(t, "User", EntityKindUser.Title())
	assert.Equal(t, "Group", EntityKindGroup.Title())
	assert.Error(t, EntityKind("").Validate())
}
