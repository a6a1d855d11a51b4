package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleRank_Ordering(t *testing.T) {
	assert.Greater(t, RoleAdmin.Rank(), RoleBoss.Rank())
	assert.Greater(t, RoleBoss.Rank(), RoleSiteManager.Rank())
	assert.Greater(t, RoleSiteManager.Rank(), RoleClient.Rank())
	assert.Greater(t, RoleClient.Rank(), Role("intruder").Rank())
}

func TestRoleRank_UnknownIsZero(t *testing.T) {
	assert.Equal(t, 0, Role("").Rank())
	assert.Equal(t, 0, Role("superuser").Rank())
}

func TestRoleDisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleAdmin, "System Administrator"},
		{RoleBoss, "Boss"},
		{RoleSiteManager, "Site Manager"},
		{RoleClient, "Client"},
		{Role("contractor"), "contractor"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.DisplayName())
	}
}

func TestUserProfile(t *testing.T) {
	u := User{
		ID:           "u1",
		Username:     "manager1",
		DisplayName:  "Site Manager One",
		Role:         RoleSiteManager,
		SiteID:       "site-7",
		PasswordHash: []byte("hash"),
		LineUserID:   "U-line-1",
	}

	p := u.Profile()
	assert.Equal(t, Profile{
		ID:          "u1",
		Username:    "manager1",
		DisplayName: "Site Manager One",
		Role:        RoleSiteManager,
		SiteID:      "site-7",
	}, p, "credentials and channel bindings must not leak into the profile")
}
