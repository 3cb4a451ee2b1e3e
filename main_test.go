package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cmd = projectsCmd()
	if args[0] == "skills" {
		cmd = skillsCmd()
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args[1:])
	err := cmd.Execute()
	return out.String(), err
}

func TestProjectsCommand(t *testing.T) {
	t.Setenv("PROJECTS_PER_PAGE", "")

	out, err := runCmd(t, "projects", "--skill", "Pandas")
	require.NoError(t, err)
	assert.Contains(t, out, "Orbit Analytics Dashboard")
	assert.NotContains(t, out, "SaaS Landing Page")
	assert.Contains(t, out, "page 1 of 1 (4 projects)")

	out, err = runCmd(t, "projects", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Review Sentiment Explorer")
	assert.Contains(t, out, "page 2 of 2 (8 projects)")

	out, err = runCmd(t, "projects", "--skill", "NonexistentTag")
	require.NoError(t, err)
	assert.Contains(t, out, `No projects match "NonexistentTag"`)

	_, err = runCmd(t, "projects", "--page", "9")
	assert.Error(t, err)
}

func TestSkillsCommand(t *testing.T) {
	out, err := runCmd(t, "skills", "--category", "Other Skills")
	require.NoError(t, err)
	assert.Contains(t, out, "Digital Signal Processing (DSP)")
	assert.Contains(t, out, "3.4")
	assert.NotContains(t, out, "Python")

	_, err = runCmd(t, "skills", "--category", "Cooking")
	assert.Error(t, err)
}
