package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBody_Inline(t *testing.T) {
	text, err := resolveBody(Body{Inline: "echo hi"}, memReader{}, AliasMap{})
	require.NoError(t, err)
	assert.Equal(t, "echo hi", text)
}

func TestResolveBody_Ref(t *testing.T) {
	reader := memReader{"workflow.sh": "#!/bin/sh\necho hi\n"}
	text, err := resolveBody(Body{IsRef: true, Ref: "workflow.sh"}, reader, AliasMap{})
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hi\n", text)
}

func TestResolveBody_RefOpenFailed(t *testing.T) {
	_, err := resolveBody(Body{IsRef: true, Ref: "missing.sh"}, memReader{}, AliasMap{})
	require.Error(t, err)
	var dslErr *Error
	require.ErrorAs(t, err, &dslErr)
	assert.Equal(t, CodeRefOpenFailed, dslErr.Code)
}

func TestResolveBody_AppliesAlias(t *testing.T) {
	reader := memReader{"/resolved.sh": "content"}
	text, err := resolveBody(Body{IsRef: true, Ref: "logical"}, reader, AliasMap{"logical": "/resolved.sh"})
	require.NoError(t, err)
	assert.Equal(t, "content", text)
}

func TestResolveTopLevelPolicies_SplitsEventsAndRules(t *testing.T) {
	policies := PoliciesSection{
		Types: map[string]PolicyType{
			"p1": {Message: "alert", Body: Body{Inline: "policy-body"}},
		},
		Rules: map[string]any{"r1": map[string]any{"threshold": "5"}},
	}
	events, rules, err := resolveTopLevelPolicies(policies, memReader{}, AliasMap{})
	require.NoError(t, err)
	assert.Equal(t, PolicyEvent{Message: "alert", Policy: "policy-body"}, events["p1"])
	assert.Equal(t, policies.Rules, rules)
}
