// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package resolve

import (
	"reflect"
	"testing"
)

func TestCandidatesWithProfile(t *testing.T) {
	got := Candidates("myapp", "dev")
	want := []string{
		"myapp-dev.yml", "myapp-dev.yaml",
		"myapp.yml", "myapp.yaml",
		"application-dev.yml", "application-dev.yaml",
		"application.yml", "application.yaml",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates() = %v, want %v", got, want)
	}
}

func TestCandidatesDefaultProfileOmitsProfileQualified(t *testing.T) {
	got := Candidates("myapp", "default")
	want := []string{"myapp.yml", "myapp.yaml", "application.yml", "application.yaml"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates() = %v, want %v", got, want)
	}
}

func TestCandidatesEmptyProfileSameAsDefault(t *testing.T) {
	got := Candidates("myapp", "")
	want := Candidates("myapp", "default")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates(\"\") = %v, want same as Candidates(\"default\") = %v", got, want)
	}
}

func TestCandidatesAppIsApplicationOmitsApplicationFallback(t *testing.T) {
	got := Candidates("application", "dev")
	want := []string{
		"application-dev.yml", "application-dev.yaml",
		"application.yml", "application.yaml",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates() = %v, want %v", got, want)
	}
}

func TestCandidatesDedupe(t *testing.T) {
	got := Candidates("application", "default")
	want := []string{"application.yml", "application.yaml"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates() = %v, want %v (deduped)", got, want)
	}
}
