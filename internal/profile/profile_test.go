package profile

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleYAML = `id: dev
skills:
  - Python
  - " AWS "
  - go
skill_levels:
  Python: 4
  Kubernetes: 1
location: Berlin, Germany
remote_preferred: true
seniority: senior
years_experience: 7
`

func writeProfile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFileNormalizesSkills(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "dev.yml", sampleYAML)

	p, err := LoadFile(filepath.Join(dir, "dev.yml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if want := []string{"python", "aws", "go"}; !reflect.DeepEqual(p.Skills, want) {
		t.Fatalf("Skills = %v, want %v", p.Skills, want)
	}
	if p.SkillLevels["python"] != 4 {
		t.Fatalf("skill_levels keys not lower-cased: %v", p.SkillLevels)
	}
	if p.SkillLevels["kubernetes"] != 1 {
		t.Fatalf("SkillLevels = %v", p.SkillLevels)
	}
	if !p.RemotePreferred || p.Location != "Berlin, Germany" {
		t.Fatalf("profile fields lost: %+v", p)
	}
}

func TestFileAccessorGet(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "dev.yml", sampleYAML)
	writeProfile(t, dir, "noid.yaml", "skills: [go]\n")

	a := NewFileAccessor(dir)
	ctx := context.Background()

	p, err := a.Get(ctx, "dev")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.ID != "dev" {
		t.Fatalf("ID = %q", p.ID)
	}

	// .yaml fallback, id filled from the request
	p, err = a.Get(ctx, "noid")
	if err != nil {
		t.Fatalf("Get yaml fallback: %v", err)
	}
	if p.ID != "noid" {
		t.Fatalf("ID = %q, want filled from request", p.ID)
	}

	if _, err := a.Get(ctx, "ghost"); err == nil {
		t.Fatal("expected error for missing profile")
	}
	if _, err := a.Get(ctx, " "); err == nil {
		t.Fatal("expected error for blank id")
	}
}

func TestFileAccessorList(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "zed.yml", "skills: [go]\n")
	writeProfile(t, dir, "amy.yaml", "skills: [go]\n")
	writeProfile(t, dir, "notes.txt", "not a profile")

	ids, err := NewFileAccessor(dir).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"amy", "zed"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("List = %v, want %v", ids, want)
	}
}
