package models

import (
	"testing"
)

func TestParseAppAction(t *testing.T) {
	tests := []struct {
		in     string
		want   AppAction
		wantOK bool
	}{
		{"restart", AppActionRestart, true},
		{"stop", AppActionStop, true},
		{"start", AppActionStart, true},
		{"Restart", "", false},
		{"scale", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseAppAction(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseAppAction(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDomainURL(t *testing.T) {
	if got := (Domain{Name: "app.example.com", SSL: true}).URL(); got != "https://app.example.com" {
		t.Errorf("URL() = %q", got)
	}
	if got := (Domain{Name: "app.example.com"}).URL(); got != "http://app.example.com" {
		t.Errorf("URL() = %q", got)
	}
}

func TestPrimaryDomain(t *testing.T) {
	domains := []Domain{
		{Name: "a.example.com"},
		{Name: "b.example.com", SSL: true},
		{Name: "c.example.com", Canonical: true},
	}
	if got := PrimaryDomain(domains); got.Name != "c.example.com" {
		t.Errorf("expected canonical domain, got %s", got.Name)
	}
	if got := PrimaryDomain(domains[:2]); got.Name != "b.example.com" {
		t.Errorf("expected ssl domain, got %s", got.Name)
	}
	if got := PrimaryDomain(domains[:1]); got.Name != "a.example.com" {
		t.Errorf("expected first domain, got %s", got.Name)
	}
	if got := PrimaryDomain(nil); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestFilterApplications(t *testing.T) {
	apps := []Application{
		{ID: "1", Name: "billing-api"},
		{ID: "2", Name: "Billing-Worker"},
		{ID: "3", Name: "frontend"},
	}

	got := FilterApplications(apps, "  BILL ")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("unexpected filter result %+v", got)
	}
	if got := FilterApplications(apps, ""); len(got) != 3 {
		t.Errorf("empty term should keep all apps, got %d", len(got))
	}
	if got := FilterApplications(apps, "nope"); len(got) != 0 {
		t.Errorf("expected no match, got %d", len(got))
	}
}

func TestDeploymentStatusIsFailure(t *testing.T) {
	failures := []DeploymentStatus{
		DeploymentStatusBuildError,
		DeploymentStatusCrashed,
		DeploymentStatusTimeout,
		DeploymentStatusAborted,
	}
	for _, s := range failures {
		if !s.IsFailure() {
			t.Errorf("%s should be a failure", s)
		}
	}
	for _, s := range []DeploymentStatus{DeploymentStatusBuilding, DeploymentStatusSuccess} {
		if s.IsFailure() {
			t.Errorf("%s should not be a failure", s)
		}
	}
}

func TestPaginationLinks(t *testing.T) {
	two := 2
	p := Pagination{CurrentPage: 1, NextPage: &two, TotalPages: 2}
	if p.HasPrev() || !p.HasNext() {
		t.Errorf("unexpected links for %+v", p)
	}
}
