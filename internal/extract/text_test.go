package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "John Smith", Normalize("  John \n\t Smith  "))
	assert.Equal(t, "", Normalize("   "))
}

func TestLooksLikeHumanName(t *testing.T) {
	valid := []string{
		"John Smith",
		"Dr. Maria Garcia",
		"J. R. Martinez",
		"Anne Marie van Dyke",
		"PRIYA NAIR", // all-caps styling
		"Robert Brown Jr.",
	}
	for _, name := range valid {
		assert.True(t, LooksLikeHumanName(name), name)
	}

	invalid := []string{
		"",
		"John",       // single token
		"Leadership", // stop word
		"Meet The Team And Our Leaders", // too many tokens
		"Agent 47",   // digits
		"john smith", // no capitalization
		"Team",
	}
	for _, name := range invalid {
		assert.False(t, LooksLikeHumanName(name), name)
	}
}

func TestRoleMatches(t *testing.T) {
	assert.True(t, RoleMatches("Chief Executive Officer"))
	assert.True(t, RoleMatches("Co-Founder & CEO"))
	assert.True(t, RoleMatches("Head of Operations"))
	assert.True(t, RoleMatches("Dean of Students"))
	assert.False(t, RoleMatches("Software Engineer"))
	assert.False(t, RoleMatches(""))
}

func TestFoldKey(t *testing.T) {
	assert.Equal(t, FoldKey("José Pérez"), FoldKey("jose perez"))
	assert.Equal(t, "rene muller", FoldKey("  René   Müller "))
	assert.NotEqual(t, FoldKey("John Smith"), FoldKey("Jane Smith"))
}
