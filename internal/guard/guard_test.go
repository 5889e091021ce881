package guard

import (
	"testing"

	"github.com/zmusic/zmusic/internal/core"
)

// fakeSession returns a fixed identity.
type fakeSession struct {
	user *core.Identity
}

func (f *fakeSession) CurrentUser() *core.Identity { return f.user }

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		user     *core.Identity
		allowed  bool
		redirect Redirect
	}{
		{
			name:     "anonymous goes to login",
			user:     nil,
			allowed:  false,
			redirect: RedirectLogin,
		},
		{
			name:     "regular user goes home",
			user:     &core.Identity{DisplayName: "alex", Role: core.RoleUser},
			allowed:  false,
			redirect: RedirectHome,
		},
		{
			name:     "unknown role goes home",
			user:     &core.Identity{DisplayName: "alex", Role: "Moderator"},
			allowed:  false,
			redirect: RedirectHome,
		},
		{
			name:     "admin is admitted",
			user:     &core.Identity{DisplayName: "alex", Role: core.RoleAdmin},
			allowed:  true,
			redirect: RedirectNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Check(&fakeSession{user: tt.user})
			if decision.Allowed != tt.allowed {
				t.Errorf("Allowed = %v, want %v", decision.Allowed, tt.allowed)
			}
			if decision.Redirect != tt.redirect {
				t.Errorf("Redirect = %q, want %q", decision.Redirect, tt.redirect)
			}
			if !decision.Allowed && decision.Reason == "" {
				t.Error("denied decision should carry a reason")
			}
		})
	}
}

func TestCheckReEvaluatesPerCall(t *testing.T) {
	session := &fakeSession{user: &core.Identity{Role: core.RoleAdmin}}

	if !Check(session).Allowed {
		t.Fatal("admin should be admitted")
	}

	// Logging out between checks flips the decision.
	session.user = nil
	if decision := Check(session); decision.Allowed || decision.Redirect != RedirectLogin {
		t.Errorf("decision after logout = %+v, want login redirect", decision)
	}
}
